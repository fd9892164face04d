package auth

import (
	"fmt"
	"testing"
	"time"

	"github.com/blues/taskhub/internal/model"
)

func TestTokenCache_PutAndGet(t *testing.T) {
	cache := NewTokenCache(time.Hour, 10)
	user := &model.User{Id: 1, Email: "a@example.com"}

	cache.Put("tok-1", user)

	got, ok := cache.Get("tok-1")
	if !ok {
		t.Fatal("Get() returned false, want true")
	}
	if got.Id != 1 {
		t.Errorf("user.Id = %d, want 1", got.Id)
	}
}

func TestTokenCache_Expiry(t *testing.T) {
	cache := NewTokenCache(time.Millisecond, 10)
	cache.Put("tok-1", &model.User{Id: 1})

	time.Sleep(5 * time.Millisecond)

	if _, ok := cache.Get("tok-1"); ok {
		t.Error("Get() returned true for expired entry")
	}
	if cache.Len() != 0 {
		t.Errorf("Len() = %d after expired read, want 0", cache.Len())
	}
}

func TestTokenCache_CapacityBound(t *testing.T) {
	cache := NewTokenCache(time.Hour, 5)

	for i := 0; i < 20; i++ {
		cache.Put(fmt.Sprintf("tok-%d", i), &model.User{Id: int64(i)})
	}

	if cache.Len() > 5 {
		t.Errorf("Len() = %d, want <= 5", cache.Len())
	}
	// 最后写入的条目应该还在
	if _, ok := cache.Get("tok-19"); !ok {
		t.Error("most recent entry evicted")
	}
}

func TestTokenCache_Invalidate(t *testing.T) {
	cache := NewTokenCache(time.Hour, 10)
	cache.Put("tok-1", &model.User{Id: 1})
	cache.Invalidate("tok-1")

	if _, ok := cache.Get("tok-1"); ok {
		t.Error("Get() returned true after Invalidate()")
	}
}
