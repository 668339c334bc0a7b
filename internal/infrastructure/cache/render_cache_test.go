package cache

import (
	"testing"
	"time"
)

func TestRenderCache_SetGet(t *testing.T) {
	c := NewRenderCache(time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("存在しないキーはヒットしないはずです")
	}

	c.Set("item-1:1", []byte("png"))
	data, ok := c.Get("item-1:1")
	if !ok {
		t.Fatal("保存したエントリが見つかりません")
	}
	if string(data) != "png" {
		t.Errorf("期待される値: png, 実際: %s", data)
	}

	c.Set("item-1:1", []byte("png-v2"))
	if data, _ := c.Get("item-1:1"); string(data) != "png-v2" {
		t.Errorf("上書きされた値が返されるべきです: %s", data)
	}
}

func TestRenderCache_Expiration(t *testing.T) {
	c := NewRenderCache(20 * time.Millisecond)
	c.Set("key", []byte("png"))

	time.Sleep(50 * time.Millisecond)

	if _, ok := c.Get("key"); ok {
		t.Error("有効期限切れのエントリは返されないはずです")
	}
}
