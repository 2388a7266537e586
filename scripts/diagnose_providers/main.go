// Command diagnose_providers probes every configured news API once and writes
// a text and a JSON report. It needs the same environment as the API server
// but no database.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"news-aggregator/internal/config"
	"news-aggregator/internal/handler/http/respond"
	"news-aggregator/internal/infra/provider"
	"news-aggregator/internal/observability/logging"
)

// ProviderDiagnostic is the result for a single provider.
type ProviderDiagnostic struct {
	Name         string `json:"name"`
	Status       string `json:"status"` // "OK", "EMPTY", "ERROR", "NOT_CONFIGURED"
	ArticleCount int    `json:"article_count"`
	Total        int    `json:"total"`
	LatestDate   string `json:"latest_date,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	ResponseTime int64  `json:"response_time_ms"`
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// api_logs には書き込まない
	registry := provider.NewRegistry(cfg.Providers, nil, logging.NewLogger("warn"))

	diagnostics := diagnoseAll(context.Background(), registry, 30*time.Second)

	if err := writeReport(os.Stdout, diagnostics); err != nil {
		log.Printf("Failed to write report: %v", err)
	}
	writeJSONReport("provider_diagnostic_report.json", diagnostics)
}

func diagnoseAll(ctx context.Context, registry *provider.Registry, timeout time.Duration) []ProviderDiagnostic {
	byName := make(map[string]provider.Source)
	for _, src := range registry.Sources() {
		byName[src.Name()] = src
	}

	statuses := registry.Status()
	out := make([]ProviderDiagnostic, 0, len(statuses))
	for i, st := range statuses {
		src, ok := byName[st.Name]
		if !st.Configured || !ok {
			out = append(out, ProviderDiagnostic{Name: st.Name, Status: "NOT_CONFIGURED"})
			continue
		}
		log.Printf("[%d/%d] Diagnosing: %s", i+1, len(statuses), st.Name)
		out = append(out, diagnose(ctx, src, timeout))
	}
	return out
}

func diagnose(ctx context.Context, src provider.Source, timeout time.Duration) ProviderDiagnostic {
	diag := ProviderDiagnostic{Name: src.Name()}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	res, err := src.Fetch(ctx, provider.FetchOptions{PageSize: 5})
	diag.ResponseTime = time.Since(start).Milliseconds()
	if err != nil {
		diag.Status = "ERROR"
		diag.ErrorMessage = respond.SanitizeError(err)
		return diag
	}

	diag.ArticleCount = len(res.Articles)
	diag.Total = res.Total
	if diag.ArticleCount == 0 {
		diag.Status = "EMPTY"
		return diag
	}
	diag.Status = "OK"

	var latest time.Time
	for _, a := range res.Articles {
		if a.PublishedAt.After(latest) {
			latest = a.PublishedAt
		}
	}
	if !latest.IsZero() {
		diag.LatestDate = latest.UTC().Format(time.RFC3339)
	}
	return diag
}

func writeReport(w io.Writer, diagnostics []ProviderDiagnostic) error {
	counts := make(map[string]int)
	for _, d := range diagnostics {
		counts[d.Status]++
	}

	if _, err := fmt.Fprintf(w, "===============================================\n"+
		"News Provider Diagnostic Report\n"+
		"Generated: %s\n"+
		"Providers: %d (OK %d, EMPTY %d, ERROR %d, NOT_CONFIGURED %d)\n"+
		"===============================================\n\n",
		time.Now().Format(time.RFC3339), len(diagnostics),
		counts["OK"], counts["EMPTY"], counts["ERROR"], counts["NOT_CONFIGURED"]); err != nil {
		return err
	}

	for _, d := range diagnostics {
		line := fmt.Sprintf("%-10s %-15s articles=%d total=%d time=%dms", d.Name, d.Status, d.ArticleCount, d.Total, d.ResponseTime)
		if d.LatestDate != "" {
			line += " latest=" + d.LatestDate
		}
		if d.ErrorMessage != "" {
			line += " error=" + d.ErrorMessage
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeJSONReport(path string, diagnostics []ProviderDiagnostic) {
	f, err := os.Create(path)
	if err != nil {
		log.Printf("Failed to create JSON report: %v", err)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Failed to close JSON report file: %v", err)
		}
	}()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(diagnostics); err != nil {
		log.Printf("Failed to write JSON report: %v", err)
		return
	}
	log.Printf("JSON report generated: %s", path)
}
