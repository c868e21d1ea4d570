package idgen

import (
	"strings"
	"sync"
	"testing"
)

func TestNextID_UniqueUnderConcurrency(t *testing.T) {
	const goroutines = 8
	const perGoroutine = 1000

	var mu sync.Mutex
	seen := make(map[int64]struct{}, goroutines*perGoroutine)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids := make([]int64, 0, perGoroutine)
			for i := 0; i < perGoroutine; i++ {
				ids = append(ids, NextID())
			}
			mu.Lock()
			for _, id := range ids {
				if _, ok := seen[id]; ok {
					t.Errorf("ID 重复: %d", id)
				}
				seen[id] = struct{}{}
			}
			mu.Unlock()
		}()
	}
	wg.Wait()
}

func TestGenerateTransactionNo_Format(t *testing.T) {
	no := GenerateTransactionNo()
	if !strings.HasPrefix(no, "TXN") {
		t.Fatalf("流水号应以 TXN 开头: %s", no)
	}
	// TXN + 14位时间 + 8位序列
	if len(no) != 3+14+8 {
		t.Fatalf("流水号长度不对: %s (%d)", no, len(no))
	}

	other := GenerateTransactionNo()
	if no == other {
		t.Fatalf("连续生成的流水号不应相同: %s", no)
	}
}
