package websearch

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
	mcp "github.com/metoro-io/mcp-golang"
	"github.com/metoro-io/mcp-golang/transport/stdio"
)

// ToolInfo describes one tool discovered on the search server.
type ToolInfo struct {
	Name        string
	Description string
}

// Session is an established connection to the search server. The live tools
// hold the session for the duration of their use; Close terminates the
// server subprocess.
type Session interface {
	ListTools(ctx context.Context) ([]ToolInfo, error)
	CallTool(ctx context.Context, name string, args any) (string, error)
	Close() error
}

// Dialer establishes a Session. The loader takes it as an injection point so
// tests can supply a scripted session instead of spawning a subprocess.
type Dialer func(ctx context.Context) (Session, error)

const serverCommand = "npx"

func serverArgs(apiKey string) []string {
	return []string{
		"-y", "@brave/brave-search-mcp-server",
		"--transport", "stdio",
		"--brave-api-key", apiKey,
	}
}

// DialStdio launches the Brave MCP server as a subprocess and completes the
// protocol handshake over its stdin/stdout.
func DialStdio(ctx context.Context, apiKey string) (Session, error) {
	cmd := exec.CommandContext(ctx, serverCommand, serverArgs(apiKey)...)
	cmd.Env = os.Environ()

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open stdin pipe")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open stdout pipe")
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "failed to start %s", serverCommand)
	}

	s := &stdioSession{
		client: mcp.NewClient(stdio.NewStdioServerTransportWithIO(stdout, stdin)),
		cmd:    cmd,
		stdin:  stdin,
	}
	if _, err := s.client.Initialize(ctx); err != nil {
		_ = s.Close()
		return nil, errors.WithMessage(err, "failed to initialize MCP session")
	}
	return s, nil
}

type stdioSession struct {
	client *mcp.Client
	cmd    *exec.Cmd
	stdin  io.WriteCloser
}

func (s *stdioSession) ListTools(ctx context.Context) ([]ToolInfo, error) {
	resp, err := s.client.ListTools(ctx, nil)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to list tools")
	}
	list := make([]ToolInfo, 0, len(resp.Tools))
	for _, t := range resp.Tools {
		info := ToolInfo{Name: t.Name}
		if t.Description != nil {
			info.Description = *t.Description
		}
		list = append(list, info)
	}
	return list, nil
}

func (s *stdioSession) CallTool(ctx context.Context, name string, args any) (string, error) {
	resp, err := s.client.CallTool(ctx, name, args)
	if err != nil {
		return "", errors.WithMessagef(err, "failed to call tool %s", name)
	}
	var sb strings.Builder
	for _, c := range resp.Content {
		if c.TextContent != nil {
			sb.WriteString(c.TextContent.Text)
		}
	}
	return sb.String(), nil
}

func (s *stdioSession) Close() error {
	_ = s.stdin.Close()
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	return s.cmd.Wait()
}
