// schedule_drift walks every course exposed by a running campus-admin-api
// instance, previews a forward recalculation for each, and reports the
// courses whose stored module dates no longer match the computed schedule.
// Useful after editing the break calendar to see what a real recalculation
// would touch before anyone presses the button.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type course struct {
	ID          string `json:"id"`
	ModuleCount int    `json:"moduleCount"`
}

type preview struct {
	Status  string `json:"status"`
	Changes []struct {
		ModuleID string `json:"moduleId"`
	} `json:"changes"`
	Warnings []string `json:"warnings"`
}

type courseDrift struct {
	CourseID string
	Changes  int
	Warnings []string
	Err      error
}

func main() {
	var (
		base        string
		token       string
		direction   string
		timeout     time.Duration
		failOnDrift bool
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&token, "token", os.Getenv("CAMPUS_API_TOKEN"), "Bearer token (defaults to CAMPUS_API_TOKEN)")
	flag.StringVar(&direction, "direction", "forward", "Recalculation direction to preview")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.BoolVar(&failOnDrift, "fail-on-drift", false, "Exit non-zero when any course has pending changes")
	flag.Parse()

	if token == "" {
		log.Fatal("a bearer token is required: pass -token or set CAMPUS_API_TOKEN")
	}

	client := &http.Client{Timeout: timeout}

	courses, err := fetchCourses(client, base, token)
	if err != nil {
		log.Fatalf("failed to list courses: %v", err)
	}

	var results []courseDrift
	drifting := 0
	for _, c := range courses {
		res := previewCourse(client, base, token, direction, c.ID)
		if res.Err == nil && res.Changes > 0 {
			drifting++
		}
		results = append(results, res)
	}

	printReport(results, direction)

	fmt.Printf("Courses checked: %d, with pending changes: %d\n", len(results), drifting)
	if failOnDrift && drifting > 0 {
		os.Exit(1)
	}
}

func fetchCourses(client *http.Client, base, token string) ([]course, error) {
	data, err := getJSON(client, base, token, "/api/v1/courses")
	if err != nil {
		return nil, err
	}
	var courses []course
	if err := json.Unmarshal(data, &courses); err != nil {
		return nil, fmt.Errorf("decode courses: %w", err)
	}
	return courses, nil
}

func previewCourse(client *http.Client, base, token, direction, courseID string) courseDrift {
	res := courseDrift{CourseID: courseID}
	path := fmt.Sprintf("/api/v1/courses/%s/modules/schedule?direction=%s", courseID, direction)
	data, err := getJSON(client, base, token, path)
	if err != nil {
		res.Err = err
		return res
	}
	var p preview
	if err := json.Unmarshal(data, &p); err != nil {
		res.Err = fmt.Errorf("decode preview: %w", err)
		return res
	}
	res.Changes = len(p.Changes)
	res.Warnings = p.Warnings
	return res
}

func getJSON(client *http.Client, base, token, path string) (json.RawMessage, error) {
	url := strings.TrimRight(base, "/") + path
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("GET %s: status %d, unreadable body", path, resp.StatusCode)
	}
	if env.Error != nil {
		return nil, fmt.Errorf("GET %s: %s (%s)", path, env.Error.Message, env.Error.Code)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	return env.Data, nil
}

func printReport(results []courseDrift, direction string) {
	fmt.Printf("Schedule Drift Report (%s)\n", direction)
	fmt.Println("==========================")
	for _, res := range results {
		status := "CLEAN"
		if res.Err != nil {
			status = "ERROR"
		} else if res.Changes > 0 {
			status = "DRIFT"
		}
		fmt.Printf("[%s] %s\n", status, res.CourseID)
		if res.Err != nil {
			fmt.Printf("  Error: %v\n", res.Err)
			continue
		}
		fmt.Printf("  Pending changes: %d\n", res.Changes)
		for _, w := range res.Warnings {
			fmt.Printf("  Warning: %s\n", w)
		}
	}
}
