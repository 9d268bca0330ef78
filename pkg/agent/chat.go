package agent

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// 两个阶段的默认采样温度
const (
	DefaultTextTemperature   = 0.3
	DefaultActionTemperature = 0.1
)

// ChatConfig 兼容 OpenAI 接口的对话服务配置
type ChatConfig struct {
	// Endpoint 基础地址，如 http://127.0.0.1:11434/v1/
	Endpoint string
	Model    string
	APIKey   string

	// Actions 允许输出的动作名
	Actions []string

	// DefaultAction 动作阶段没有给出任何方括号时使用
	DefaultAction string

	TextTemperature   float64
	ActionTemperature float64
}

// ChatClient 两阶段对话适配器：先生成回复，再根据回复挑选动作
type ChatClient struct {
	cfg    ChatConfig
	client *http.Client
	url    string
}

// NewChatClient 创建对话适配器
// httpClient 为 nil 时使用 http.DefaultClient，超时由调用方的 context 控制
func NewChatClient(cfg ChatConfig, httpClient *http.Client) *ChatClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ChatClient{
		cfg:    cfg,
		client: httpClient,
		url:    strings.TrimRight(cfg.Endpoint, "/") + "/chat/completions",
	}
}

// Process implements Dialogue.
func (c *ChatClient) Process(ctx context.Context, input string) ([]string, string, error) {
	text, err := c.complete(ctx, textStagePrompt, input, c.cfg.TextTemperature)
	if err != nil {
		return nil, "", fmt.Errorf("text stage: %w", err)
	}

	rawActions, err := c.complete(ctx, actionStagePrompt(c.cfg.Actions), text, c.cfg.ActionTemperature)
	if err != nil {
		return nil, "", fmt.Errorf("action stage: %w", err)
	}

	actions := ParseActions(rawActions, c.cfg.Actions, c.cfg.DefaultAction)
	return actions, ExtractReply(text), nil
}

// complete 发送一次 chat completion 请求，返回第一条回复内容
func (c *ChatClient) complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	body, err := buildChatBody(c.cfg.Model, system, user, temperature)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request to %s failed: %w", c.url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat service returned %d: %s", resp.StatusCode, gjson.GetBytes(data, "error.message").String())
	}

	content := gjson.GetBytes(data, "choices.0.message.content")
	if !content.Exists() {
		return "", fmt.Errorf("response has no choices.0.message.content")
	}
	log.Printf("[Agent] %s -> %q", c.cfg.Model, content.String())
	return content.String(), nil
}

func buildChatBody(model, system, user string, temperature float64) ([]byte, error) {
	body := []byte(`{"messages":[]}`)
	var err error
	set := func(path string, value interface{}) {
		if err == nil {
			body, err = sjson.SetBytes(body, path, value)
		}
	}
	set("model", model)
	set("messages.-1", map[string]string{"role": "system", "content": system})
	set("messages.-1", map[string]string{"role": "user", "content": user})
	set("temperature", temperature)
	set("stream", false)
	if err != nil {
		return nil, fmt.Errorf("failed to build chat body: %w", err)
	}
	return body, nil
}
