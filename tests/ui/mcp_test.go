package tests

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

func postMCP(t *testing.T, body string) string {
	t.Helper()
	req, err := http.NewRequest("POST", serverURL()+"/mcp", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /mcp status = %d: %s", resp.StatusCode, data)
	}
	return string(data)
}

func TestMCPInitialize(t *testing.T) {
	out := postMCP(t, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"ui-test","version":"1.0"}}}`)
	if !strings.Contains(out, "iposhala-portal") {
		t.Errorf("initialize = %s, want server name", out)
	}
}

func TestMCPGetIPO(t *testing.T) {
	out := postMCP(t, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"get_ipo","arguments":{"symbol":"acme"}}}`)
	if !strings.Contains(out, "Acme Industries Ltd") {
		t.Errorf("get_ipo = %s, want company name", out)
	}
	if !strings.Contains(out, "/api/docs/ACME/rhp") {
		t.Errorf("get_ipo = %s, want RHP document URL", out)
	}
}
