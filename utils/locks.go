package utils

import "sync"

// tableLocks menserialisasi operasi read-then-write per meja. Operasi pada
// meja yang berbeda tetap jalan paralel; dua operasi pada meja yang sama
// (mis. dua server createOrder bersamaan) antri di mutex yang sama.
var tableLocks = struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}{
	locks: make(map[uint]*sync.Mutex),
}

// LockTable -> ambil lock untuk satu table id (blocking)
func LockTable(tableID uint) {
	tableLocks.mu.Lock()
	l, ok := tableLocks.locks[tableID]
	if !ok {
		l = &sync.Mutex{}
		tableLocks.locks[tableID] = l
	}
	tableLocks.mu.Unlock()

	l.Lock()
}

// UnlockTable -> lepaskan lock table id
func UnlockTable(tableID uint) {
	tableLocks.mu.Lock()
	l, ok := tableLocks.locks[tableID]
	tableLocks.mu.Unlock()

	if ok {
		l.Unlock()
	}
}
