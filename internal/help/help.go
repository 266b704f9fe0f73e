// Package help renders the fixed help texts of the orizon command.
package help

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/orizon-lang/orizon/internal/cli"
	oerrors "github.com/orizon-lang/orizon/internal/errors"
	"github.com/orizon-lang/orizon/internal/suggest"
)

//go:embed topics/*.txt
var topicFS embed.FS

const (
	// Default is printed for a bare `orizon help`.
	Default = "default"
	// List prints the names of every topic.
	List = "topics"
)

// Commands are listed by the default topic, in this order.
var Commands = []cli.CommandInfo{
	{Name: "run", Description: "Compile and run a program"},
	{Name: "crun", Description: "Compile and run, keeping the binary"},
	{Name: "build", Description: "Compile a program"},
	{Name: "build-module", Description: "Compile a module"},
	{Name: "new, init", Description: "Create a project"},
	{Name: "install", Description: "Manage packages (see `help install`)"},
	{Name: "interpret", Description: "Run with the bytecode interpreter"},
	{Name: "translate", Description: "Translate foreign source to Orizon"},
	{Name: "vlib-docs", Description: "Generate standard library docs"},
	{Name: "version", Description: "Print the version"},
	{Name: "help", Description: "Show help for a topic"},
}

var aliases = map[string]string{
	"init":     "new",
	"list":     "install",
	"outdated": "install",
	"remove":   "install",
	"search":   "install",
	"show":     "install",
	"update":   "install",
	"upgrade":  "install",
}

// Topics returns every topic name accepted by Print, sorted.
func Topics() []string {
	names := []string{Default, List}
	entries, _ := fs.ReadDir(topicFS, "topics")
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".txt"))
	}
	for a := range aliases {
		names = append(names, a)
	}
	sort.Strings(names)
	return names
}

// Has reports whether topic can be printed.
func Has(topic string) bool {
	if topic == Default || topic == List {
		return true
	}
	_, err := text(topic)
	return err == nil
}

func text(topic string) ([]byte, error) {
	if target, ok := aliases[topic]; ok {
		topic = target
	}
	if topic == "" || strings.ContainsAny(topic, `/\`) {
		return nil, fs.ErrNotExist
	}
	return topicFS.ReadFile(path.Join("topics", topic+".txt"))
}

// Print writes topic to w. An unknown topic is an UnknownCommand error whose
// message suggests the closest topic names.
func Print(w io.Writer, topic string, opts ...suggest.Option) error {
	switch topic {
	case "", Default:
		cli.PrintUsage(w, "orizon", Commands)
		return nil
	case List:
		for _, name := range Topics() {
			fmt.Fprintln(w, name)
		}
		return nil
	}

	b, err := text(topic)
	if err != nil {
		msg := fmt.Sprintf("orizon help: unknown topic `%s`", topic)
		msg = suggest.New(topic, Topics(), opts...).Say(msg)
		return oerrors.UnknownCommand(topic, msg)
	}
	_, err = w.Write(b)
	return err
}
