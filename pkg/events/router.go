package events

// Handler 事件处理器
type Handler interface {
	// HandleEvent 处理单个事件，在分发阶段同步调用
	HandleEvent(event Event)

	// EventTypes 返回处理器关心的事件类型，Router 据此注册
	EventTypes() []EventType
}

// HandlerFunc 把普通函数适配为订阅指定类型的 Handler
type HandlerFunc struct {
	Types []EventType
	Fn    func(Event)
}

// HandleEvent 调用包装的函数
func (h HandlerFunc) HandleEvent(event Event) { h.Fn(event) }

// EventTypes 返回订阅的类型
func (h HandlerFunc) EventTypes() []EventType { return h.Types }

// Router 把队列中的事件分发给注册的处理器
//
//   - 单线程分发
//   - 同一类型可注册多个处理器，按注册顺序调用
type Router struct {
	handlers map[EventType][]Handler
	queue    *EventQueue
}

// NewRouter 创建绑定到指定队列的路由器
func NewRouter(queue *EventQueue) *Router {
	return &Router{
		handlers: make(map[EventType][]Handler),
		queue:    queue,
	}
}

// Register 按处理器声明的事件类型注册
func (r *Router) Register(handler Handler) {
	for _, t := range handler.EventTypes() {
		r.handlers[t] = append(r.handlers[t], handler)
	}
}

// DispatchAll 取出队列中全部事件并分发，返回分发的事件
func (r *Router) DispatchAll() []Event {
	evs := r.queue.Consume()
	for _, ev := range evs {
		for _, h := range r.handlers[ev.Type] {
			h.HandleEvent(ev)
		}
	}
	return evs
}

// HandlerCount 返回指定类型已注册的处理器数量
func (r *Router) HandlerCount(t EventType) int {
	return len(r.handlers[t])
}
