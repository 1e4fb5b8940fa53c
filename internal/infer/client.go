// internal/infer/client.go
package infer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Command is the executable serving one collaborator model.
type Command struct {
	Path string
	Args []string
}

// ParseCommand splits a configured command line on whitespace.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("infer: empty command")
	}
	return Command{Path: fields[0], Args: fields[1:]}, nil
}

// call runs the command once: req as JSON on stdin, resp decoded from
// stdout. Stderr is passed through to the response error on failure. The
// child is exclusively owned by this call; the pipeline never runs two calls
// concurrently.
func call(ctx context.Context, log zerolog.Logger, cmd Command, req, resp any) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return err
	}

	begin := time.Now()
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	if err := c.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("infer: %s: %s", cmd.Path, msg)
	}
	log.Debug().Str("cmd", cmd.Path).Dur("elapsed", time.Since(begin)).Msg("collaborator call")

	if err := json.Unmarshal(stdout.Bytes(), resp); err != nil {
		return fmt.Errorf("infer: %s: bad response: %w", cmd.Path, err)
	}
	return nil
}
