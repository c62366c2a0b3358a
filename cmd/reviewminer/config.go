package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/IshaanNene/ReviewMiner/internal/config"
)

// configCmd creates the "config" subcommand for inspecting and editing the
// configuration file.
func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or edit the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print every configuration key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.OutOrStdout())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print one value (dotted key, e.g. crawler.max_pages)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.Open(cfgFile)
			if err != nil {
				return err
			}
			if !store.IsSet(args[0]) {
				return fmt.Errorf("unknown config key %q", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatValue(store.Get(args[0])))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one value and save the file",
		Long:  "Set one value and save the file. JSON literals (numbers, booleans, arrays) are decoded, anything else is stored as a string.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.Open(cfgFile)
			if err != nil {
				return err
			}
			store.SetString(args[0], args[1])
			if err := saveValidated(store); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], formatValue(store.Get(args[0])))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset [key]",
		Short: "Restore one key, or the whole file, to the defaults",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.Open(cfgFile)
			if err != nil {
				return err
			}
			key := ""
			if len(args) == 1 {
				key = args[0]
			}
			if err := store.Reset(key); err != nil {
				return err
			}
			if err := saveValidated(store); err != nil {
				return err
			}
			if key == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s reset to defaults\n", store.Path())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, formatValue(store.Get(key)))
			}
			return nil
		},
	})

	return cmd
}

func showConfig(w io.Writer) error {
	store, err := config.Open(cfgFile)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(store.Path())
	t.AppendHeader(table.Row{"Key", "Value"})
	for _, key := range store.Keys() {
		t.AppendRow(table.Row{key, formatValue(store.Get(key))})
	}
	t.Render()
	return nil
}

// saveValidated refuses to write a tree that no longer decodes or validates.
func saveValidated(store *config.Store) error {
	if _, err := config.ValidateStore(store); err != nil {
		return fmt.Errorf("invalid config, not saved: %w", err)
	}
	return store.Save()
}

// formatValue prints scalars as is and everything else as JSON.
func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool, int, int64, float64:
		return fmt.Sprint(v)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
