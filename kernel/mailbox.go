package kernel

// Message is a value delivered to a context's mailbox.
type Message struct {
	From  ID
	To    ID
	Value any
}

// mailbox holds one FIFO per destination id. A queue exists only while it
// has pending messages.
type mailbox struct {
	q      map[ID]*queue[Message]
	queued int
}

func (mb *mailbox) init() {
	mb.q = make(map[ID]*queue[Message])
	mb.queued = 0
}

func (mb *mailbox) push(msg Message) {
	q := mb.q[msg.To]
	if q == nil {
		q = &queue[Message]{}
		mb.q[msg.To] = q
	}
	q.pushBack(msg)
	mb.queued++
}

func (mb *mailbox) pop(id ID) (Message, bool) {
	q := mb.q[id]
	if q == nil {
		return Message{}, false
	}
	msg, ok := q.popFront()
	if q.len() == 0 {
		delete(mb.q, id)
	}
	if ok {
		mb.queued--
	}
	return msg, ok
}

func (mb *mailbox) clear() {
	clear(mb.q)
	mb.queued = 0
}
