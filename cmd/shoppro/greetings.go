package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/shoppro/shoppro/pkg/client"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a78bfa")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cmdStyle   = lipgloss.NewStyle().Bold(true)
)

var commands = []struct{ cmd, desc string }{
	{"shoppro", "Open the storefront (interactive TUI)"},
	{"shoppro login", "Sign in: --store <slug> --email <email>"},
	{"shoppro register", "Create an account: --store <slug> --email <email>"},
	{"shoppro logout", "Clear your session"},
	{"shoppro stores", "List stores"},
	{"shoppro --version", "Show version"},
	{"shoppro help", "You are here"},
}

func printHelp() {
	title := titleStyle.Render("S H O P P R O")
	tagline := dimStyle.Italic(true).Render("Multi-store shopping from your terminal.")

	fmt.Printf("\n  %s\n  %s\n\n  Commands:\n", title, tagline)
	for _, c := range commands {
		fmt.Printf("    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), dimStyle.Render(c.desc))
	}
	fmt.Printf("\n  %s\n\n", dimStyle.Render("The password is read from SHOPPRO_PASSWORD or prompted for."))
}

func printExpiredHint() {
	fmt.Printf("\n%s\n%s\n\n",
		titleStyle.Render(client.SessionExpiredMessage),
		dimStyle.Render("To sign in again: shoppro login --store <slug> --email <email>"))
}
