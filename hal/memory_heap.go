package hal

// NewHeapMemory returns a Memory backed by ordinary Go allocations.
//
// Regions have no guard page: an overflow is not detected.
func NewHeapMemory(page int) Memory {
	if page <= 0 {
		page = 4096
	}
	return heapMemory{page: page}
}

type heapMemory struct {
	page int
}

func (m heapMemory) PageSize() int { return m.page }

func (m heapMemory) MapStack(size int) (Region, error) {
	return &heapRegion{b: make([]byte, StackLen(size, m.page))}, nil
}

type heapRegion struct {
	b []byte
}

func (r *heapRegion) Bytes() []byte   { return r.b }
func (r *heapRegion) GuardBytes() int { return 0 }
func (r *heapRegion) Len() int        { return len(r.b) }

func (r *heapRegion) Release() error {
	if r.b == nil {
		return ErrReleased
	}
	r.b = nil
	return nil
}
