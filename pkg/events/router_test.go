package events

import "testing"

func TestRouterDispatchesInOrder(t *testing.T) {
	q := NewEventQueue()
	r := NewRouter(q)

	var got []EventType
	r.Register(HandlerFunc{
		Types: []EventType{EventSpawned, EventRemoved},
		Fn:    func(e Event) { got = append(got, e.Type) },
	})

	var bites int
	r.Register(HandlerFunc{
		Types: []EventType{EventBite},
		Fn:    func(e Event) { bites++ },
	})

	q.Push(Event{Type: EventSpawned})
	q.Push(Event{Type: EventBite})
	q.Push(Event{Type: EventRemoved})

	dispatched := r.DispatchAll()
	if len(dispatched) != 3 {
		t.Fatalf("期望分发 3 个事件, got %d", len(dispatched))
	}
	if len(got) != 2 || got[0] != EventSpawned || got[1] != EventRemoved {
		t.Errorf("订阅者收到的事件顺序错误: %v", got)
	}
	if bites != 1 {
		t.Errorf("期望 1 个 bite 事件, got %d", bites)
	}
	if q.Len() != 0 {
		t.Errorf("分发后队列应为空, got %d", q.Len())
	}
	if r.DispatchAll() != nil {
		t.Error("空队列分发应返回 nil")
	}
}

func TestRouterHandlerCount(t *testing.T) {
	r := NewRouter(NewEventQueue())
	r.Register(HandlerFunc{Types: AllEventTypes, Fn: func(Event) {}})

	for _, typ := range AllEventTypes {
		if r.HandlerCount(typ) != 1 {
			t.Errorf("类型 %s 期望 1 个处理器, got %d", typ, r.HandlerCount(typ))
		}
	}
}
