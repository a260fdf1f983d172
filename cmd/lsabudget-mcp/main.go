// Command lsabudget-mcp exposes the budget estimator as an MCP tool over
// stdio, proxying to a running lsabudget HTTP server.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// budgetRequest mirrors the lsabudget API request model.
type budgetRequest struct {
	ZipCode       string `json:"zipCode"`
	Industry      string `json:"industry"`
	LeadsPerMonth int    `json:"leadsPerMonth"`
}

// budgetResponse mirrors the lsabudget API response model.
type budgetResponse struct {
	Success bool `json:"success"`
	Budget  *struct {
		Min       int    `json:"min"`
		Max       int    `json:"max"`
		Currency  string `json:"currency"`
		Frequency string `json:"frequency"`
	} `json:"budget"`
	Leads *struct {
		Requested   int `json:"requested"`
		Estimated   int `json:"estimated"`
		CostPerLead int `json:"costPerLead"`
	} `json:"leads"`
	Location *struct {
		ZipCode   string `json:"zipCode"`
		Available bool   `json:"available"`
	} `json:"location"`
	Industry string `json:"industry"`
	Error    string `json:"error"`
	Details  string `json:"details"`
}

// industriesResponse mirrors GET /industries.
type industriesResponse struct {
	Industries []string `json:"industries"`
	Total      int      `json:"total"`
}

func main() {
	apiURL := os.Getenv("LSA_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:3000"
	}
	apiKey := os.Getenv("LSA_API_KEY")

	s := server.NewMCPServer(
		"lsabudget",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	estimateTool := mcp.NewTool("estimate_budget",
		mcp.WithDescription("Estimate the monthly Google Local Services Ads budget range and cost per lead for a US service area. Drives a headless browser against the official calculator, so a call can take up to a minute."),
		mcp.WithString("zip_code",
			mcp.Required(),
			mcp.Description("5-digit US ZIP code of the service area"),
		),
		mcp.WithString("industry",
			mcp.Required(),
			mcp.Description("Service industry label; must exactly match one entry from the list_industries tool"),
		),
		mcp.WithNumber("leads_per_month",
			mcp.Required(),
			mcp.Description("Desired monthly lead volume (1-10000)"),
		),
	)
	s.AddTool(estimateTool, handleEstimateBudget(apiURL, apiKey))

	industriesTool := mcp.NewTool("list_industries",
		mcp.WithDescription("List the service-industry labels the estimator accepts."),
	)
	s.AddTool(industriesTool, handleListIndustries(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleEstimateBudget(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 90 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		zipCode, err := request.RequireString("zip_code")
		if err != nil {
			return mcp.NewToolResultError("zip_code is required"), nil
		}
		industry, err := request.RequireString("industry")
		if err != nil {
			return mcp.NewToolResultError("industry is required"), nil
		}
		leads, err := request.RequireInt("leads_per_month")
		if err != nil {
			return mcp.NewToolResultError("leads_per_month is required and must be a number"), nil
		}

		body, err := json.Marshal(budgetRequest{
			ZipCode:       zipCode,
			Industry:      industry,
			LeadsPerMonth: leads,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal request: %v", err)), nil
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/calculate-budget", body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}

		var resp budgetResponse
		if err := json.Unmarshal(respBody, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !resp.Success {
			errMsg := resp.Error
			if errMsg == "" {
				errMsg = "budget estimate failed"
			}
			if resp.Details != "" {
				errMsg += " (" + resp.Details + ")"
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		result := fmt.Sprintf(
			"Estimated monthly budget for a %s in %s: %s %d – %d\n"+
				"Leads: %d requested, %d estimated by Google\n"+
				"Cost per lead: ~%s %d",
			resp.Industry, resp.Location.ZipCode,
			resp.Budget.Currency, resp.Budget.Min, resp.Budget.Max,
			resp.Leads.Requested, resp.Leads.Estimated,
			resp.Budget.Currency, resp.Leads.CostPerLead,
		)
		return mcp.NewToolResultText(result), nil
	}
}

func handleListIndustries(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 15 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+"/industries", nil)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create request: %v", err)), nil
		}
		if apiKey != "" {
			req.Header.Set("X-API-Key", apiKey)
		}

		resp, err := client.Do(req)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read response: %v", err)), nil
		}

		var industries industriesResponse
		if err := json.Unmarshal(respBody, &industries); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		var sb bytes.Buffer
		fmt.Fprintf(&sb, "%d industries:\n\n", industries.Total)
		for _, label := range industries.Industries {
			sb.WriteString(label + "\n")
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// apiPost sends a POST request to the lsabudget API and returns the body.
func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}
