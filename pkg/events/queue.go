package events

// EventQueue 单帧事件缓冲
//
// 模拟是单线程的，生产者（各系统）和消费者（帧末分发）都在游戏循环内，
// 因此使用普通切片即可。
type EventQueue struct {
	events []Event
}

// NewEventQueue 创建事件队列
func NewEventQueue() *EventQueue {
	return &EventQueue{events: make([]Event, 0, 32)}
}

// Push 追加事件
func (q *EventQueue) Push(event Event) {
	q.events = append(q.events, event)
}

// Len 返回待分发事件数量
func (q *EventQueue) Len() int {
	return len(q.events)
}

// Consume 按先进先出顺序取出全部待分发事件
func (q *EventQueue) Consume() []Event {
	if len(q.events) == 0 {
		return nil
	}
	out := q.events
	q.events = make([]Event, 0, cap(out))
	return out
}

// Clear 丢弃所有待分发事件
func (q *EventQueue) Clear() {
	q.events = q.events[:0]
}
