// skinhubctl is a small admin client for the internal API. It is what the
// game-server plugin calls, packaged as a CLI for operators and scripts.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type client struct {
	BaseURL   string
	APIKey    string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) post(path string, body any) (int, []byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return 0, nil, err
	}
	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("X-Admin-API-Key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func main() {
	var (
		baseURL = envOr("SKINHUB_URL", "http://localhost:8123")
		apiKey  = envOr("SKINHUB_ADMIN_KEY", "")
		out     = envOr("SKINHUB_OUT", "text")
		timeout = 30 * time.Second
	)

	root := &cobra.Command{
		Use:   "skinhubctl",
		Short: "Admin CLI for the SkinHub internal API",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if apiKey == "" {
				return fmt.Errorf("missing API key (flag --admin-api-key or env SKINHUB_ADMIN_KEY)")
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "base URL of the SkinHub service (env SKINHUB_URL)")
	root.PersistentFlags().StringVar(&apiKey, "admin-api-key", apiKey, "internal API key (env SKINHUB_ADMIN_KEY)")
	root.PersistentFlags().StringVar(&out, "out", out, "output format: text|json (env SKINHUB_OUT)")

	newClient := func() *client {
		return &client{
			BaseURL:   baseURL,
			APIKey:    apiKey,
			OutFormat: out,
			HTTP:      &http.Client{Timeout: timeout},
		}
	}

	issuePin := &cobra.Command{
		Use:   "issue-pin <identity-uuid> <handle>",
		Short: "Issue (or re-display) the login PIN for a player",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			status, body, err := c.post("/api/internal/pin", map[string]string{
				"identity": args[0],
				"handle":   args[1],
			})
			if err != nil {
				return err
			}
			c.print(status, body)
			if status != http.StatusOK {
				return fmt.Errorf("request failed with status %d", status)
			}
			return nil
		},
	}

	revoke := &cobra.Command{
		Use:   "revoke-session <identity-uuid>",
		Short: "Revoke the live web session of a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			status, body, err := c.post("/api/internal/logout", map[string]string{
				"identity": args[0],
			})
			if err != nil {
				return err
			}
			c.print(status, body)
			if status != http.StatusOK {
				return fmt.Errorf("request failed with status %d", status)
			}
			return nil
		},
	}

	root.AddCommand(issuePin, revoke)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
