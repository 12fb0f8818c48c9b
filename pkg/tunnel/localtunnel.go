// Package tunnel acquires a public URL for the local gateway so the webhook
// can be registered without a routable host. This is deployment glue; the
// dispatcher and its tests never depend on it.
package tunnel

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/tgbridge/tgbridge/pkg/logger"
)

// Line prefix localtunnel prints once the tunnel is up.
const urlMarker = "your url is:"

const startTimeout = 60 * time.Second

// PublicURLProvider exposes a local port at a public URL.
type PublicURLProvider interface {
	AcquirePublicURL(ctx context.Context, port int) (string, error)
	Close() error
}

// LocalTunnel shells out to `npx localtunnel` and scrapes the public URL
// from its stdout. The subprocess stays alive until Close (or until the
// context given to AcquirePublicURL is cancelled).
type LocalTunnel struct {
	cmd *exec.Cmd
}

func (t *LocalTunnel) AcquirePublicURL(ctx context.Context, port int) (string, error) {
	cmd := exec.CommandContext(ctx, "npx", "localtunnel", "--port", strconv.Itoa(port))

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", err
	}
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("failed to start localtunnel: %w", err)
	}
	t.cmd = cmd

	logger.InfoCF("tunnel", "localtunnel started", map[string]interface{}{
		"port": port,
	})

	urls := make(chan string, 1)
	scanErrs := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			line := scanner.Text()
			if idx := strings.Index(line, urlMarker); idx >= 0 {
				urls <- strings.TrimSpace(line[idx+len(urlMarker):])
				return
			}
		}
		if err := scanner.Err(); err != nil {
			scanErrs <- err
			return
		}
		scanErrs <- fmt.Errorf("localtunnel exited without printing a URL")
	}()

	select {
	case url := <-urls:
		if url == "" {
			t.Close()
			return "", fmt.Errorf("localtunnel printed an empty URL")
		}
		return url, nil
	case err := <-scanErrs:
		t.Close()
		return "", err
	case <-ctx.Done():
		t.Close()
		return "", ctx.Err()
	case <-time.After(startTimeout):
		t.Close()
		return "", fmt.Errorf("timed out waiting for localtunnel URL")
	}
}

func (t *LocalTunnel) Close() error {
	if t.cmd != nil && t.cmd.Process != nil {
		return t.cmd.Process.Kill()
	}
	return nil
}
