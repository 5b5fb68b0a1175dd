package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/1shammah/symptom-checker/internal/checker"
)

// Client is a thin HTTP client for the checker API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a Client for the given API base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Login authenticates and stores the session token for later calls.
func (c *Client) Login(email, password string) error {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := c.http.Post(c.baseURL+"/api/v1/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("calling login: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decoding login response: %w", err)
	}
	c.token = out.Token
	return nil
}

// Check submits a symptom list and returns the ranked matches.
func (c *Client) Check(symptoms []string, topK int) (*checker.CheckResponse, error) {
	body, _ := json.Marshal(checker.CheckRequest{Symptoms: symptoms, TopK: topK})
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/api/v1/check", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling check: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var out checker.CheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding check response: %w", err)
	}
	return &out, nil
}

// Symptoms returns the catalog symptom names.
func (c *Client) Symptoms() ([]string, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/api/v1/symptoms", nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling symptoms: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var out struct {
		Symptoms []struct {
			Name string `json:"name"`
		} `json:"symptoms"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding symptoms response: %w", err)
	}
	names := make([]string, 0, len(out.Symptoms))
	for _, s := range out.Symptoms {
		names = append(names, s.Name)
	}
	return names, nil
}

func decodeError(resp *http.Response) error {
	var out struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err == nil && out.Error != "" {
		return fmt.Errorf("%s (HTTP %d)", out.Error, resp.StatusCode)
	}
	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}
