package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/decker502/shadowpuppet/pkg/motion"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，如 SHADOW_DIALOGUE_MODEL
const EnvPrefix = "SHADOW"

// StageConfig 运行时舞台设置
type StageConfig struct {
	Window WindowConfig `mapstructure:"window"`

	// FPS 动画帧率，同时作为 ebiten 的 TPS
	FPS int `mapstructure:"fps"`

	// Scale 人物整体缩放
	Scale float64 `mapstructure:"scale"`

	// StageOffsetY 缩放前的竖直偏移
	StageOffsetY float64 `mapstructure:"stage_offset_y"`

	Background string  `mapstructure:"background"`
	SpriteDir  string  `mapstructure:"sprite_dir"`
	FontPath   string  `mapstructure:"font_path"`
	FontSize   float64 `mapstructure:"font_size"`

	// SkeletonTable/ActionTable 为空时使用嵌入的默认表
	SkeletonTable string `mapstructure:"skeleton_table"`
	ActionTable   string `mapstructure:"action_table"`

	// ClipDir 覆盖动作表中的 clip_dir
	ClipDir string `mapstructure:"clip_dir"`

	Debug         DebugConfig         `mapstructure:"debug"`
	Dialogue      DialogueConfig      `mapstructure:"dialogue"`
	Transcription TranscriptionConfig `mapstructure:"transcription"`

	Corrections motion.Corrections `mapstructure:"corrections"`

	// AppName gdata 存储使用的应用名
	AppName string `mapstructure:"app_name"`
}

// WindowConfig 窗口设置
type WindowConfig struct {
	Title string `mapstructure:"title"`

	// Width/Height 为 0 时使用空闲片段的分辨率
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// DebugConfig 调试叠加层开关
type DebugConfig struct {
	Pivots bool `mapstructure:"pivots"`
	Joints bool `mapstructure:"joints"`
	Label  bool `mapstructure:"label"`

	// PivotEditor 允许按 1 进入枢轴编辑模式
	PivotEditor bool `mapstructure:"pivot_editor"`
}

// DialogueConfig 对话服务设置
type DialogueConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Endpoint string        `mapstructure:"endpoint"`
	Model    string        `mapstructure:"model"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// TranscriptionConfig 语音识别服务设置
type TranscriptionConfig struct {
	// Endpoint 为空时禁用语音输入
	Endpoint   string `mapstructure:"endpoint"`
	SampleRate int    `mapstructure:"sample_rate"`
}

func setStageDefaults(v *viper.Viper) {
	corrections := motion.DefaultCorrections()

	v.SetDefault("window.title", "皮影数字人")
	v.SetDefault("window.width", 0)
	v.SetDefault("window.height", 0)
	v.SetDefault("fps", 45)
	v.SetDefault("scale", 0.79)
	v.SetDefault("stage_offset_y", 65)
	v.SetDefault("background", "assets/bg.png")
	v.SetDefault("sprite_dir", "assets/sprites")
	v.SetDefault("font_path", "assets/font.ttf")
	v.SetDefault("font_size", 22)
	v.SetDefault("skeleton_table", "")
	v.SetDefault("action_table", "")
	v.SetDefault("clip_dir", "")
	v.SetDefault("debug.pivots", false)
	v.SetDefault("debug.joints", false)
	v.SetDefault("debug.label", false)
	v.SetDefault("debug.pivot_editor", false)
	v.SetDefault("dialogue.enabled", true)
	v.SetDefault("dialogue.endpoint", "http://127.0.0.1:11434/v1/")
	v.SetDefault("dialogue.model", "gemma3:4b")
	v.SetDefault("dialogue.api_key", "ollama")
	v.SetDefault("dialogue.timeout", "30s")
	v.SetDefault("transcription.endpoint", "")
	v.SetDefault("transcription.sample_rate", 16000)
	v.SetDefault("corrections.elbow_drop_y", corrections.ElbowDropY)
	v.SetDefault("corrections.right_shoulder_offset_x", corrections.RightShoulderOffsetX)
	v.SetDefault("corrections.left_shoulder_offset_x", corrections.LeftShoulderOffsetX)
	v.SetDefault("app_name", "shadowpuppet")
}

// LoadStageConfig 加载舞台设置
//
// 优先级：环境变量（SHADOW_*，层级用下划线连接）> 配置文件 > 默认值。
//
// 参数：
//   - path: YAML 配置文件路径，为空时只使用默认值和环境变量
//
// 返回：
//   - *StageConfig: 已校验的设置
//   - error: 读取、解析或校验失败
func LoadStageConfig(path string) (*StageConfig, error) {
	v := viper.New()
	setStageDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext == "" {
			v.SetConfigType("yaml")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("无法读取配置文件 %s: %w", path, err)
		}
	}

	var cfg StageConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("无法解析配置文件 %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置校验失败: %w", err)
	}
	return &cfg, nil
}

// Validate 检查设置的取值范围
func (c *StageConfig) Validate() error {
	if c.FPS <= 0 || c.FPS > 240 {
		return fmt.Errorf("fps must be in (0, 240], got %d", c.FPS)
	}
	if c.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %v", c.Scale)
	}
	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("window size must not be negative, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.FontSize <= 0 {
		return fmt.Errorf("font_size must be positive, got %v", c.FontSize)
	}
	if c.Dialogue.Enabled {
		if c.Dialogue.Endpoint == "" || c.Dialogue.Model == "" {
			return fmt.Errorf("dialogue.endpoint and dialogue.model are required when dialogue is enabled")
		}
		if c.Dialogue.Timeout <= 0 {
			return fmt.Errorf("dialogue.timeout must be positive, got %v", c.Dialogue.Timeout)
		}
	}
	if c.Transcription.Endpoint != "" && c.Transcription.SampleRate <= 0 {
		return fmt.Errorf("transcription.sample_rate must be positive, got %d", c.Transcription.SampleRate)
	}
	return nil
}
