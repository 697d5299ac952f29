// Command ledgerctl runs administrative tasks against a Ledgerly database.
package main

func main() {
	Execute()
}
