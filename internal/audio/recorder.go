// Package audio 录制麦克风输入，输出单声道 16 位 PCM 采样
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/gen2brain/malgo"
)

// 默认录音参数：16kHz 单声道，每块 4000 帧
const (
	DefaultSampleRate = 16000
	DefaultBlockSize  = 4000
)

// ErrNoAudio 停止录音时没有收到任何数据
var ErrNoAudio = errors.New("no audio captured")

// Config 录音配置
type Config struct {
	SampleRate int
	BlockSize  int
}

// captureDevice 录音设备，*malgo.Device 实现了该接口
type captureDevice interface {
	Start() error
	Stop() error
	Uninit()
}

// openFunc 打开一个录音设备，onData 在音频线程中收到原始字节
type openFunc func(onData func(input []byte)) (captureDevice, error)

// Recorder 按需打开设备的录音器
//
// Start/Stop 在主循环中调用；数据回调运行在音频线程，通过互斥锁写入缓冲区。
type Recorder struct {
	mu        sync.Mutex
	open      openFunc
	device    captureDevice
	buf       []byte
	recording bool

	closeContext func()
}

// NewRecorder 初始化 malgo 上下文
//
// 返回：
//   - error: 没有可用的音频后端时返回错误
func NewRecorder(cfg Config) (*Recorder, error) {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.BlockSize <= 0 {
		cfg.BlockSize = DefaultBlockSize
	}

	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		log.Printf("[Recorder] %s", message)
	})
	if err != nil {
		return nil, fmt.Errorf("初始化音频上下文失败: %w", err)
	}

	open := func(onData func(input []byte)) (captureDevice, error) {
		deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
		deviceConfig.Capture.Format = malgo.FormatS16
		deviceConfig.Capture.Channels = 1
		deviceConfig.SampleRate = uint32(cfg.SampleRate)
		deviceConfig.PeriodSizeInFrames = uint32(cfg.BlockSize)
		deviceConfig.Alsa.NoMMap = 1

		callbacks := malgo.DeviceCallbacks{
			Data: func(_, input []byte, _ uint32) {
				onData(input)
			},
		}
		dev, err := malgo.InitDevice(mctx.Context, deviceConfig, callbacks)
		if err != nil {
			return nil, err
		}
		return dev, nil
	}

	r := newRecorder(open)
	r.closeContext = func() {
		_ = mctx.Uninit()
		mctx.Free()
	}
	log.Printf("[Recorder] 录音器就绪 (%d Hz, 单声道)", cfg.SampleRate)
	return r, nil
}

func newRecorder(open openFunc) *Recorder {
	return &Recorder{open: open}
}

// Recording 是否正在录音
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Start 打开设备并开始录音，已在录音时什么也不做
func (r *Recorder) Start() error {
	r.mu.Lock()
	if r.recording {
		r.mu.Unlock()
		return nil
	}
	r.buf = r.buf[:0]
	r.mu.Unlock()

	dev, err := r.open(r.append)
	if err != nil {
		return fmt.Errorf("打开录音设备失败: %w", err)
	}
	if err := dev.Start(); err != nil {
		dev.Uninit()
		return fmt.Errorf("启动录音失败: %w", err)
	}

	r.mu.Lock()
	r.device = dev
	r.recording = true
	r.mu.Unlock()
	log.Printf("[Recorder] 开始录音")
	return nil
}

func (r *Recorder) append(input []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording {
		r.buf = append(r.buf, input...)
	}
}

// Stop 停止录音并返回录到的采样
//
// 返回：
//   - []int16: 单声道 16 位采样
//   - error: 没有在录音或没有录到数据时返回 ErrNoAudio
func (r *Recorder) Stop() ([]int16, error) {
	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return nil, ErrNoAudio
	}
	r.recording = false
	dev := r.device
	r.device = nil
	data := make([]byte, len(r.buf))
	copy(data, r.buf)
	r.buf = r.buf[:0]
	r.mu.Unlock()

	// Stop 会等待音频线程退出，不能持有锁
	if err := dev.Stop(); err != nil {
		log.Printf("[Recorder] 停止设备出错: %v", err)
	}
	dev.Uninit()

	samples := DecodePCM16(data)
	if len(samples) == 0 {
		return nil, ErrNoAudio
	}
	log.Printf("[Recorder] 录音结束，%d 个采样", len(samples))
	return samples, nil
}

// Close 停止录音并释放音频上下文
func (r *Recorder) Close() {
	if r.Recording() {
		_, _ = r.Stop()
	}
	if r.closeContext != nil {
		r.closeContext()
		r.closeContext = nil
	}
}

// DecodePCM16 把小端 16 位 PCM 字节转换为采样，末尾不足两字节的部分丢弃
func DecodePCM16(data []byte) []int16 {
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[2*i:]))
	}
	return samples
}
