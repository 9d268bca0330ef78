package player

import "log"

// Request 一次动作请求：动作名列表和要显示的回复
type Request struct {
	// ID 用于日志关联
	ID      string
	Actions []string
	Reply   string
}

// Mailbox 单槽请求邮箱
//
// 生产者（对话分发协程）非阻塞投递，槽位已满时新请求被丢弃；
// 消费者（主循环）每帧最多取一个。
type Mailbox struct {
	ch chan Request
}

// NewMailbox 创建邮箱
func NewMailbox() *Mailbox {
	return &Mailbox{ch: make(chan Request, 1)}
}

// Offer 投递请求，槽位已满时丢弃并返回 false
func (m *Mailbox) Offer(req Request) bool {
	select {
	case m.ch <- req:
		return true
	default:
		log.Printf("[Mailbox] 警告: 已有未处理的请求，丢弃请求 %s (%v)", req.ID, req.Actions)
		return false
	}
}

// Poll 取出待处理的请求（如果有）
func (m *Mailbox) Poll() (Request, bool) {
	select {
	case req := <-m.ch:
		return req, true
	default:
		return Request{}, false
	}
}

// Pending 是否有待处理的请求
func (m *Mailbox) Pending() bool {
	return len(m.ch) > 0
}
