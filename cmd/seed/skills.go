package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var defaultSkills = []string{
	"Go", "Python", "JavaScript", "TypeScript", "React", "Vue.js", "Node.js",
	"Django", "PostgreSQL", "MySQL", "Redis", "Docker", "Kubernetes", "AWS",
	"GraphQL", "REST API", "HTML", "CSS", "Figma", "UI/UX Design",
	"Machine Learning", "Data Analysis", "Copywriting", "SEO", "Project Management",
}

// seedSkillItem is the object form accepted from the seed endpoint.
type seedSkillItem struct {
	Name string `json:"name"`
}

// fetchSkillsFromAPI downloads a skill list from url.
func fetchSkillsFromAPI(url string) ([]string, error) {
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return parseSkillNames(body)
}

// parseSkillNames accepts either ["Go", ...] or [{"name": "Go"}, ...].
func parseSkillNames(body []byte) ([]string, error) {
	var names []string
	if err := json.Unmarshal(body, &names); err == nil {
		return compact(names), nil
	}

	var items []seedSkillItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	names = make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return compact(names), nil
}

func compact(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
