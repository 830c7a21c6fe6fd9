package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mindgraph/internal/apperr"
	"mindgraph/internal/crawler"
	"mindgraph/internal/generator"
	"mindgraph/internal/graph"
	"mindgraph/internal/pipeline"
	"mindgraph/internal/server"
)

var (
	rootCmd = &cobra.Command{
		Use:   "mindgraph",
		Short: "Turn free-form text into a clustered, labeled mindmap",
	}
	configPath string
	dbPath     string

	inputText  string
	inputTitle string
	outFormat  string
	saveResult bool

	exportFormat string
	exportOut    string
	listLimit    int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the SQLite database (overrides config)")

	generateCmd.Flags().StringVarP(&inputText, "text", "t", "", "Text to process instead of a file or stdin")
	generateCmd.Flags().StringVar(&inputTitle, "title", "", "Title of the central node")
	generateCmd.Flags().StringVarP(&outFormat, "format", "f", "json", "Output format: json, markdown or mermaid")
	generateCmd.Flags().BoolVarP(&saveResult, "save", "s", false, "Store the mindmap in the database")

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "markdown", "Export format: json, markdown or mermaid")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write to this file instead of stdout")

	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "Maximum number of mindmaps to list (0 for all)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(exportCmd)
}

func mustApp() *app {
	a, err := newApp()
	if err != nil {
		log.Fatalf("Setup failed: %v\nCheck your config.yaml and API keys.", err)
	}
	return a
}

var generateCmd = &cobra.Command{
	Use:   "generate [file]",
	Short: "Generate a mindmap from a text file, --text or stdin",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		format, err := generator.ParseFormat(outFormat)
		if err != nil {
			log.Fatalf("%v", err)
		}
		text, err := readInput(inputText, args, cmd.InOrStdin())
		if err != nil {
			log.Fatalf("%v", err)
		}

		a := mustApp()
		defer a.Close()

		if err := a.service.Initialize(ctx); err != nil {
			log.Fatalf("Embedding model unavailable: %v", err)
		}

		req := pipeline.Request{Text: text, Title: inputTitle}
		if inputTitle == "" && len(args) > 0 && args[0] != "-" {
			req.Title = crawler.TitleFromPath(args[0])
		}

		if saveResult {
			rec, err := a.runner.Generate(ctx, req)
			if err != nil {
				log.Fatalf("Generation failed: %v", err)
			}
			fmt.Fprintf(os.Stderr, "💾 Saved mindmap %s\n", rec.ID)
			printExport(cmd, &rec.Mindmap, format)
			return
		}

		mm, err := a.proc.Process(ctx, req)
		if err != nil {
			log.Fatalf("Generation failed: %v", err)
		}
		printExport(cmd, mm, format)
	},
}

func printExport(cmd *cobra.Command, mm *graph.Mindmap, format generator.Format) {
	out, err := generator.Export(mm, format)
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
}

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Generate and store a mindmap for every .txt and .md file under a directory",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		root, err := filepath.Abs(args[0])
		if err != nil {
			log.Fatalf("Invalid directory: %v", err)
		}
		fmt.Printf("📂 Scanning directory: %s\n", root)

		a := mustApp()
		defer a.Close()

		if err := a.service.Initialize(ctx); err != nil {
			log.Fatalf("Embedding model unavailable: %v", err)
		}

		start := time.Now()
		var ok, failed int
		err = a.runner.Batch(ctx, root, func(res pipeline.BatchResult) {
			rel, _ := filepath.Rel(root, res.Path)
			if res.Err != nil {
				failed++
				fmt.Printf("⚠️  %s: %s\n", rel, apperr.As(res.Err).Message)
				return
			}
			ok++
			fmt.Printf("✅ %s -> %s (%d clusters)\n", rel, res.Record.ID, res.Record.Mindmap.Metadata.ClustersFound)
		})
		if err != nil {
			log.Fatalf("Batch failed: %v", err)
		}
		fmt.Printf("🎉 Batch complete in %v: %d stored, %d skipped.\n", time.Since(start).Round(time.Millisecond), ok, failed)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a := mustApp()
		defer a.Close()

		fmt.Println("🧠 Loading embedding model...")
		if err := a.service.Initialize(ctx); err != nil {
			a.Close()
			log.Fatalf("Embedding model unavailable: %v", err)
		}

		srv := server.New(a.cfg, a.runner, a.store, a.service, a.log)
		fmt.Printf("🚀 Listening on :%d\n", a.cfg.Server.Port)
		if err := srv.ListenAndServe(ctx); err != nil {
			a.Close()
			log.Fatalf("Server failed: %v", err)
		}
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored mindmaps, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp()
		defer a.Close()

		list, err := a.store.ListMindmaps(context.Background(), listLimit)
		if err != nil {
			log.Fatalf("Failed to list mindmaps: %v", err)
		}
		if len(list) == 0 {
			fmt.Println("No mindmaps stored yet.")
			return
		}
		for _, s := range list {
			fmt.Printf("%s  %s  %-30s  %d concepts, %d clusters\n",
				s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04"), s.Title, s.TotalConcepts, s.ClustersFound)
		}
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a stored mindmap as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := mustApp()
		defer a.Close()

		rec, err := a.store.GetMindmap(context.Background(), args[0])
		if err != nil {
			log.Fatalf("%v", err)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(rec); err != nil {
			log.Fatalf("Failed to encode mindmap: %v", err)
		}
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a stored mindmap as Markdown, Mermaid or JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, err := generator.ParseFormat(exportFormat)
		if err != nil {
			log.Fatalf("%v", err)
		}

		a := mustApp()
		defer a.Close()

		rec, err := a.store.GetMindmap(context.Background(), args[0])
		if err != nil {
			log.Fatalf("%v", err)
		}
		out, err := generator.Export(&rec.Mindmap, format)
		if err != nil {
			log.Fatalf("Export failed: %v", err)
		}

		if exportOut == "" {
			fmt.Fprint(cmd.OutOrStdout(), out)
			return
		}
		if err := os.WriteFile(exportOut, []byte(out), 0o644); err != nil {
			log.Fatalf("Failed to write %s: %v", exportOut, err)
		}
		fmt.Printf("✅ Exported %s to %s\n", rec.ID, exportOut)
	},
}
