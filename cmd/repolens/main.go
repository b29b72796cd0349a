// Command repolens analyzes repositories from the terminal: local
// directories, zip archives, or GitHub URLs.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"repolens/internal/analyzer"
	"repolens/internal/archive"
	"repolens/internal/extract"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "repolens",
		Short:         "Analyze a repository and pack its context for an LLM",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newExtractCmd())
	return root
}

func newAnalyzeCmd() *cobra.Command {
	var asJSON bool
	var payloadOnly bool

	cmd := &cobra.Command{
		Use:   "analyze <path>",
		Short: "Analyze a local directory or zip archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := openSource(args[0])
			if err != nil {
				return err
			}
			result, err := analyzer.New(nil, nil).Run(src)
			if err != nil {
				return err
			}
			if payloadOnly {
				fmt.Print(result.Payload)
				return nil
			}
			if asJSON {
				return printJSON(summarize(result))
			}
			printSummary(result)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	cmd.Flags().BoolVar(&payloadOnly, "payload", false, "print only the packed context payload")
	return cmd
}

func newExtractCmd() *cobra.Command {
	var branch string
	var token string

	cmd := &cobra.Command{
		Use:   "extract <github_url>",
		Short: "Download and analyze a GitHub repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := extract.NewService(strings.TrimSpace(os.Getenv("GITHUB_TOKEN")), 0)
			doc, err := svc.Run(context.Background(), extract.Request{
				GitHubURL: args[0],
				Branch:    branch,
				Token:     token,
			}, func(stage, detail string) {
				log.Printf("stage=%s %s", stage, detail)
			})
			if err != nil {
				return err
			}
			return printJSON(doc)
		},
	}
	cmd.Flags().StringVar(&branch, "branch", "main", "branch to download")
	cmd.Flags().StringVar(&token, "token", "", "GitHub token for private repos")
	return cmd
}

func openSource(path string) (analyzer.Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return archive.OpenDir(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return archive.OpenZip(data)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func summarize(r *analyzer.Result) map[string]any {
	return map[string]any{
		"total_files":      r.TotalFiles,
		"total_lines":      r.TotalLines,
		"total_size_bytes": r.TotalSizeBytes,
		"by_category":      r.Categories,
		"ignored":          r.IgnoredFiles,
		"by_extension":     r.TopExtensions(20),
		"dependencies":     r.Dependencies,
		"directory":        r.DirectoryMap(),
		"payload_chars":    r.PayloadChars,
		"files_in_context": r.FilesInContext,
		"included_files":   r.IncludedFileLabels(),
		"errors":           r.Errors,
	}
}

func printSummary(r *analyzer.Result) {
	fmt.Printf("files: %d  lines: %d  size: %d bytes\n", r.TotalFiles, r.TotalLines, r.TotalSizeBytes)
	fmt.Printf("payload: %d/%d chars across %d files\n", r.PayloadChars, r.PayloadMaxChars, r.FilesInContext)
	for _, label := range r.IncludedFileLabels() {
		fmt.Printf("  + %s\n", label)
	}
	if len(r.Dependencies) > 0 {
		fmt.Println("dependencies:")
		for _, d := range r.Dependencies {
			fmt.Printf("  %s (%s): %d entries\n", d.File, d.Manager, d.Total())
		}
	}
	if len(r.Errors) > 0 {
		fmt.Printf("errors: %d\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Printf("  ! %s\n", e)
		}
	}
}
