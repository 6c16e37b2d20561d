package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tidwall/gjson"

	"github.com/Prahants/mcp-startup-generator/internal/client"
)

func newValidateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Print the server owner's phone number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := dial(cmd, v)
			if err != nil {
				return err
			}
			defer c.Close()

			phone, err := c.Validate(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), phone)
			return nil
		},
	}
}

func newIdeaCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "idea CONCEPT...",
		Short: "Generate a startup idea for a concept",
		Long: `Generate a startup idea and execution plan for a noun or concept.
Multiple arguments are joined with spaces. The same concept always produces
the same idea.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := dial(cmd, v)
			if err != nil {
				return err
			}
			defer c.Close()

			report, err := c.StartupIdea(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

func newJobsCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Analyze a job description, fetch a posting, or search for jobs",
		Long: `jobs calls job_finder. A description wins over a URL, which wins over a
search. Searches run only when the goal contains "find" or "look for".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := client.JobQuery{}
			q.Goal, _ = cmd.Flags().GetString("goal")
			q.Description, _ = cmd.Flags().GetString("description")
			q.URL, _ = cmd.Flags().GetString("job-url")
			q.Raw, _ = cmd.Flags().GetBool("raw")

			if path, _ := cmd.Flags().GetString("description-file"); path != "" {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading description file: %w", err)
				}
				q.Description = string(data)
			}

			c, err := dial(cmd, v)
			if err != nil {
				return err
			}
			defer c.Close()

			out, err := c.FindJobs(cmd.Context(), q)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().String("goal", "", "what you are after, e.g. \"find remote golang jobs\"")
	cmd.Flags().String("description", "", "full job description text")
	cmd.Flags().String("description-file", "", "read the job description from a file")
	cmd.Flags().String("job-url", "", "job posting URL to fetch")
	cmd.Flags().Bool("raw", false, "return the fetched page without markdown conversion")
	_ = cmd.MarkFlagRequired("goal")
	cmd.MarkFlagsMutuallyExclusive("description", "description-file")

	return cmd
}

func newBlackAndWhiteCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bw IMAGE",
		Short: "Convert a PNG, JPEG, or GIF to black and white",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			output, _ := cmd.Flags().GetString("output")
			if output == "" {
				output = strings.TrimSuffix(input, filepath.Ext(input)) + "_bw.png"
			}

			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("reading image: %w", err)
			}

			c, err := dial(cmd, v)
			if err != nil {
				return err
			}
			defer c.Close()

			img, err := c.BlackAndWhite(cmd.Context(), data)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, img.Data, 0644); err != nil {
				return fmt.Errorf("writing image: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, %d bytes)\n", output, img.MIMEType, len(img.Data))
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "output file (default: <input>_bw.png)")
	return cmd
}

func newToolsCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the server's tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := dial(cmd, v)
			if err != nil {
				return err
			}
			defer c.Close()

			list, err := c.ListTools(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}

			info := c.ServerInfo()
			fmt.Fprintf(out, "%s %s\n\n", info.Name, info.Version)
			name := color.New(color.FgCyan, color.Bold)
			for _, t := range list {
				name.Fprintln(out, t.Name)
				// Rich descriptions are JSON; plain ones print as-is.
				desc := t.Description
				if raw := t.Description; gjson.Valid(raw) {
					if d := gjson.Get(raw, "description"); d.Exists() {
						desc = d.String()
					}
					if u := gjson.Get(raw, "use_when"); u.Exists() {
						desc += "\n  when: " + u.String()
					}
				}
				fmt.Fprintf(out, "  %s\n", desc)
				for _, arg := range toolArgs(t.InputSchema.Properties, t.InputSchema.Required) {
					fmt.Fprintf(out, "  - %s\n", arg)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "print the raw tool list as JSON")
	return cmd
}

// toolArgs formats input schema properties as "name (type, required)".
func toolArgs(props map[string]any, required []string) []string {
	req := make(map[string]bool, len(required))
	for _, r := range required {
		req[r] = true
	}

	var out []string
	for name, p := range props {
		typ := "any"
		if m, ok := p.(map[string]any); ok {
			if s, ok := m["type"].(string); ok {
				typ = s
			}
		}
		line := name + " (" + typ
		if req[name] {
			line += ", required"
		}
		out = append(out, line+")")
	}
	sort.Strings(out)
	return out
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of startup-cli",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "startup-cli %s\n", version)
		},
	}
}
