// Package ui синхронизирует состояние боя с виджетами интерфейса.
// Виджеты только отображают данные и ничего не меняют в симуляции.
package ui

import (
	"sync"

	"github.com/annel0/fps-sim/internal/vec"
)

// TextWidget - текстовая надпись
type TextWidget interface {
	SetText(text string)
	SetColor(color string)
	SetScale(scale float64)
}

// FillWidget - полоса заполнения
type FillWidget interface {
	SetFill(amount float64)
}

// Billboard - элемент в мире, поворачиваемый к камере
type Billboard interface {
	Position() vec.Vec3
	LookAt(point vec.Vec3)
}

// Text - текст в памяти, читается снимком мира
type Text struct {
	mu    sync.RWMutex
	text  string
	color string
	scale float64
}

// NewText создаёт белую надпись обычного размера
func NewText() *Text {
	return &Text{color: "white", scale: 1}
}

func (t *Text) SetText(text string) {
	t.mu.Lock()
	t.text = text
	t.mu.Unlock()
}

func (t *Text) SetColor(color string) {
	t.mu.Lock()
	t.color = color
	t.mu.Unlock()
}

func (t *Text) SetScale(scale float64) {
	t.mu.Lock()
	t.scale = scale
	t.mu.Unlock()
}

// Get возвращает текст, цвет и масштаб
func (t *Text) Get() (text, color string, scale float64) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.text, t.color, t.scale
}

// String возвращает текст
func (t *Text) String() string {
	text, _, _ := t.Get()
	return text
}

// Fill - полоса заполнения в памяти
type Fill struct {
	mu     sync.RWMutex
	amount float64
}

// NewFill создаёт полную полосу
func NewFill() *Fill { return &Fill{amount: 1} }

func (f *Fill) SetFill(amount float64) {
	if amount < 0 {
		amount = 0
	}
	if amount > 1 {
		amount = 1
	}
	f.mu.Lock()
	f.amount = amount
	f.mu.Unlock()
}

// Amount возвращает заполнение в [0,1]
func (f *Fill) Amount() float64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.amount
}

// Bar - полоса здоровья над головой врага
type Bar struct {
	mu      sync.RWMutex
	anchor  func() vec.Vec3
	offset  vec.Vec3
	forward vec.Vec3
}

// NewBar создаёт полосу, следующую за anchor со смещением offset
func NewBar(anchor func() vec.Vec3, offset vec.Vec3) *Bar {
	return &Bar{anchor: anchor, offset: offset, forward: vec.Forward}
}

func (b *Bar) Position() vec.Vec3 {
	if b.anchor == nil {
		return b.offset
	}
	return b.anchor().Add(b.offset)
}

func (b *Bar) LookAt(point vec.Vec3) {
	dir := point.Sub(b.Position()).Normalized()
	if dir.IsZero() {
		return
	}
	b.mu.Lock()
	b.forward = dir
	b.mu.Unlock()
}

// Forward возвращает направление полосы
func (b *Bar) Forward() vec.Vec3 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.forward
}
