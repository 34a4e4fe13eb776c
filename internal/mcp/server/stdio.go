package server

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"tmdb-mcp-server/internal/jsonutil"
	"tmdb-mcp-server/internal/mcp/protocol"

	"github.com/sirupsen/logrus"
)

// StdioTransport frames newline-delimited JSON-RPC over a reader/writer pair.
// Every line is dispatched in its own goroutine; responses are written whole,
// one per line, in completion order.
type StdioTransport struct {
	dispatcher  *Dispatcher
	logger      logrus.FieldLogger
	maxLineSize int

	mu sync.Mutex // serializes writes
}

// NewStdioTransport creates a stdio transport
func NewStdioTransport(dispatcher *Dispatcher, config *Config, logger logrus.FieldLogger) *StdioTransport {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	maxLineSize := DefaultMaxLineSize
	if config != nil && config.Transport.MaxLineSize > 0 {
		maxLineSize = config.Transport.MaxLineSize
	}
	return &StdioTransport{
		dispatcher:  dispatcher,
		logger:      logger,
		maxLineSize: maxLineSize,
	}
}

// Serve reads requests from r until EOF or ctx is done, writing responses to w.
// It waits for in-flight requests before returning. A line that cannot be
// handled fails on its own; only a read error ends the loop.
func (t *StdioTransport) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	reader := bufio.NewReaderSize(r, min(64*1024, t.maxLineSize))

	t.logger.Info("TMDB MCP Server started")

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		raw, tooLong, err := readLine(reader, t.maxLineSize)
		if tooLong {
			t.logger.WithField("max_line_size", t.maxLineSize).Warn("Discarding oversized message")
			t.write(w, protocol.NewError(nil, protocol.ParseError, "Parse error"))
		} else if line := bytes.TrimSpace(raw); len(line) > 0 {
			t.handleLine(ctx, &wg, w, line)
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("stdio transport failed: %w", err)
		}
	}
}

// handleLine parses one message and dispatches it in its own goroutine
func (t *StdioTransport) handleLine(ctx context.Context, wg *sync.WaitGroup, w io.Writer, line []byte) {
	req, failed := protocol.ParseRequest(line)
	if failed != nil {
		t.logger.WithField("code", failed.Error.Code).Warn("Failed to parse message")
		t.write(w, failed)
		return
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if resp := t.dispatcher.Dispatch(ctx, req); resp != nil {
			t.write(w, resp)
		}
	}()
}

// readLine returns the next line, terminator included. A line longer than
// limit is consumed up to its newline and reported as too long with no data.
func readLine(reader *bufio.Reader, limit int) ([]byte, bool, error) {
	var (
		line    []byte
		tooLong bool
	)
	for {
		fragment, err := reader.ReadSlice('\n')
		if !tooLong {
			line = append(line, fragment...)
			if len(bytes.TrimRight(line, "\r\n")) > limit {
				line, tooLong = nil, true
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return line, tooLong, err
	}
}

func (t *StdioTransport) write(w io.Writer, resp *protocol.JSONRPCResponse) {
	data, err := jsonutil.Compact(resp)
	if err != nil {
		t.logger.WithError(err).Error("Failed to encode response")
		data, _ = jsonutil.Compact(protocol.NewError(resp.ID, protocol.InternalError, protocol.DefaultErrorMessage))
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := w.Write(append(data, '\n')); err != nil {
		t.logger.WithError(err).Error("Failed to write response")
	}
}
