package main

import (
	"testing"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	want := map[string]bool{"migrate": false, "seed": false, "rates": false}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("Expected subcommand %q to be registered", name)
		}
	}
}

func TestMigrateSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range migrateCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, name := range []string{"up", "down", "version"} {
		if !names[name] {
			t.Errorf("Expected migrate %s to be registered", name)
		}
	}

	steps := migrateDownCmd.Flags().Lookup("steps")
	if steps == nil || steps.DefValue != "1" {
		t.Errorf("Expected --steps to default to 1")
	}
}

func TestSeedDefaults(t *testing.T) {
	users := seedCmd.Flags().Lookup("users")
	if users == nil || users.DefValue != "3" {
		t.Fatalf("Expected --users to default to 3")
	}
	password := seedCmd.Flags().Lookup("password")
	if password == nil || len(password.DefValue) < 8 {
		t.Errorf("Expected a default password of at least 8 characters")
	}
}
