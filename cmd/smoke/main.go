package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"nutriproof/internal/apiclient"
	"nutriproof/internal/schemas"
)

const sampleText = `Water boils at 100 degrees Celsius at sea level. The Eiffel Tower is about 330 metres tall.
A banana contains roughly 105 calories. The Moon is 100,000 km from Earth.`

type gradeResp struct {
	Report struct {
		Letter     string `json:"letter"`
		ScoreLabel string `json:"score_label"`
	} `json:"report"`
	Chart []map[string]any `json:"chart"`
}

func main() {
	base := envOr("API_BASE_URL", "http://localhost:8000")
	token := envOr("API_TOKEN", "dev-secret-token")

	baseFlag := flag.String("base", base, "API base URL (e.g., http://localhost:8000)")
	tokenFlag := flag.String("token", token, "API token for /api/checks")
	wait := flag.Duration("wait", 2*time.Minute, "How long to wait for the queued check")
	sync := flag.Bool("sync", false, "Also run the synchronous /api/fact-check endpoint")
	flag.Parse()

	c := apiclient.New(*baseFlag, *tokenFlag, 90*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), *wait+time.Minute)
	defer cancel()

	// 1) Optional synchronous run
	if *sync {
		results, err := c.FactCheck(ctx, sampleText)
		if err != nil {
			fatalf("fact-check: %v", err)
		}
		fmt.Printf("✅ Synchronous fact-check returned %d results\n", len(results))
	}

	// 2) Create a queued check
	created, err := c.CreateCheck(ctx, sampleText)
	if err != nil {
		fatalf("create check: %v", err)
	}
	fmt.Printf("✅ Created check: id=%s status=%s\n", created.CheckID, created.Status)

	// 3) Poll until the worker is done
	waitCtx, cancelWait := context.WithTimeout(ctx, *wait)
	defer cancelWait()
	out, err := c.WaitCheck(waitCtx, created.CheckID, 2*time.Second, func(co schemas.CheckOut) {
		fmt.Printf("ℹ️  status=%s attempts=%d\n", co.Status, co.Attempts)
	})
	if err != nil {
		fatalf("wait for check: %v", err)
	}
	if out.Status != "done" {
		fatalf("check ended with status %s: %s", out.Status, out.Error)
	}
	fmt.Printf("✅ Check done: %d results, archived at %q\n", len(out.Results), out.ObjectRef)

	// 4) Grade the results through the API
	var graded gradeResp
	if err := c.Grade(ctx, schemas.GradeRequest{Results: out.Results}, &graded); err != nil {
		fatalf("grade: %v", err)
	}
	fmt.Printf("✅ Grade %s (%s/10)\n%s\n", graded.Report.Letter, graded.Report.ScoreLabel, compactJSON(graded.Chart))

	fmt.Printf("🎉 Smoke run OK. CheckID=%s\n", created.CheckID)
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func compactJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func fatalf(format string, args ...any) {
	fmt.Printf("❌ "+format+"\n", args...)
	os.Exit(1)
}
