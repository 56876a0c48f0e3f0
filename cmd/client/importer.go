package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Manifest lists the works to import into one portfolio. Image paths are
// relative to the manifest file.
type Manifest struct {
	Portfolio string         `yaml:"portfolio"`
	Works     []ManifestWork `yaml:"works"`
}

type ManifestWork struct {
	Image  string            `yaml:"image"`
	Fields map[string]string `yaml:"fields"`
}

func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if strings.TrimSpace(m.Portfolio) == "" {
		return nil, fmt.Errorf("manifest has no portfolio")
	}
	dir := filepath.Dir(path)
	for i := range m.Works {
		if m.Works[i].Image == "" {
			return nil, fmt.Errorf("work %d has no image", i+1)
		}
		if !filepath.IsAbs(m.Works[i].Image) {
			m.Works[i].Image = filepath.Join(dir, m.Works[i].Image)
		}
	}
	return &m, nil
}

type ImportProgress struct {
	mu        sync.RWMutex
	total     int
	imported  int
	failed    int
	startTime time.Time
}

func (p *ImportProgress) IncrementImported() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.imported++
}

func (p *ImportProgress) IncrementFailed() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed++
}

func (p *ImportProgress) GetProgress() (imported, failed, total int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.imported, p.failed, p.total
}

// Client talks to the admin API with a session token.
type Client struct {
	server string
	token  string
	http   *http.Client
}

func NewClient(server string) *Client {
	return &Client{
		server: strings.TrimRight(server, "/"),
		http:   &http.Client{Timeout: 2 * time.Minute},
	}
}

func (c *Client) Login(ctx context.Context, email, password string) error {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.server+"/auth/login", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		Token string `json:"token"`
	}
	if err := c.send(req, http.StatusOK, &out); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	c.token = out.Token
	return nil
}

// AddWork posts one work as a multipart form.
func (c *Client) AddWork(ctx context.Context, portfolioID string, w ManifestWork) error {
	img, err := os.ReadFile(w.Image)
	if err != nil {
		return err
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, value := range w.Fields {
		if err := writer.WriteField(name, value); err != nil {
			return err
		}
	}
	part, err := writer.CreateFormFile("image", filepath.Base(w.Image))
	if err != nil {
		return err
	}
	if _, err := part.Write(img); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/admin/portfolios/%s/works", c.server, portfolioID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.send(req, http.StatusCreated, nil)
}

func (c *Client) send(req *http.Request, want int, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != want {
		return fmt.Errorf("HTTP %d %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	if out != nil {
		return json.Unmarshal(respBody, out)
	}
	return nil
}

// Import uploads every work of m with at most limit requests in flight. A
// failing work is reported through onError and does not stop the others.
func Import(ctx context.Context, c *Client, m *Manifest, limit int, onError func(ManifestWork, error)) *ImportProgress {
	progress := &ImportProgress{total: len(m.Works), startTime: time.Now()}
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup

	for _, w := range m.Works {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(w ManifestWork) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}
			if err := c.AddWork(ctx, m.Portfolio, w); err != nil {
				progress.IncrementFailed()
				if onError != nil {
					onError(w, err)
				}
				return
			}
			progress.IncrementImported()
		}(w)
	}
	wg.Wait()
	return progress
}
