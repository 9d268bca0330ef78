package agent

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// DefaultSampleRate 录音采样率
const DefaultSampleRate = 16000

// HTTPTranscriber 把 PCM 采样提交给识别服务，服务返回 {"text": "..."}
type HTTPTranscriber struct {
	endpoint   string
	sampleRate int
	client     *http.Client
}

// NewHTTPTranscriber 创建识别适配器
func NewHTTPTranscriber(endpoint string, sampleRate int, httpClient *http.Client) *HTTPTranscriber {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPTranscriber{endpoint: endpoint, sampleRate: sampleRate, client: httpClient}
}

// Transcribe implements Transcriber.
func (t *HTTPTranscriber) Transcribe(ctx context.Context, samples []int16) (string, error) {
	var buf bytes.Buffer
	buf.Grow(len(samples) * 2)
	if err := binary.Write(&buf, binary.LittleEndian, samples); err != nil {
		return "", fmt.Errorf("failed to encode pcm: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", fmt.Sprintf("audio/L16; rate=%d; channels=1", t.sampleRate))

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request to %s failed: %w", t.endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription service returned %d", resp.StatusCode)
	}
	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("failed to parse transcription result: %q", data)
	}
	return strings.TrimSpace(gjson.GetBytes(data, "text").String()), nil
}
