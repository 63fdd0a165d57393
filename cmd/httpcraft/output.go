package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/httpcraft/httpcraft/internal/httpclient"
	"github.com/httpcraft/httpcraft/internal/vars"
)

type timing struct {
	Duration  int64  `json:"duration"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type jsonResponse struct {
	Status        int               `json:"status"`
	StatusText    string            `json:"statusText"`
	Headers       map[string]string `json:"headers"`
	Timing        timing            `json:"timing"`
	Data          any               `json:"data"`
	IsBinary      bool              `json:"isBinary"`
	ContentType   string            `json:"contentType"`
	ContentLength int64             `json:"contentLength"`
}

// printResponse writes resp to stdout: the raw body in text mode, or the
// structured envelope in JSON mode.
func printResponse(resp *httpclient.Response, started, ended time.Time, jsonOut bool) {
	if !jsonOut {
		if resp.IsBinary {
			os.Stdout.Write(resp.RawBody)
		} else {
			fmt.Print(resp.Body)
		}
		return
	}

	out := jsonResponse{
		Status:     resp.Status,
		StatusText: resp.StatusText,
		Headers:    resp.Headers,
		Timing: timing{
			Duration:  ended.Sub(started).Milliseconds(),
			StartTime: started.UTC().Format(time.RFC3339Nano),
			EndTime:   ended.UTC().Format(time.RFC3339Nano),
		},
		IsBinary:      resp.IsBinary,
		ContentType:   resp.ContentType,
		ContentLength: resp.ContentLength,
	}
	if resp.IsBinary {
		out.Data = fmt.Sprintf("<binary data: %d bytes>", len(resp.RawBody))
	} else if parsed, ok := vars.TryParseJSON(resp.Body); ok {
		out.Data = parsed
	} else {
		out.Data = resp.Body
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: encoding JSON response: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

// diag writes a masked, prefixed diagnostic line to stderr when verbose is
// set — independent of the structured slog stream, written directly by
// the command layer.
func diag(verbose bool, masker *vars.Masker, prefix, format string, args ...any) {
	if !verbose {
		return
	}
	line := fmt.Sprintf(format, args...)
	if masker != nil {
		line = masker.Mask(line)
	}
	fmt.Fprintf(os.Stderr, "[%s] %s\n", prefix, line)
}
