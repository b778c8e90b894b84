package actor

import (
	"encoding/json"
	"testing"
)

func TestNewPlayer(t *testing.T) {
	p, err := NewPlayer(PlayerSpec{MaxHP: 12, AC: 14, Attributes: map[string]int{"strength": 16}})
	if err != nil {
		t.Fatalf("NewPlayer() error = %v", err)
	}
	if p.HP() != 12 {
		t.Errorf("Expected HP 12, got %d", p.HP())
	}
	if p.Actor.MaxHP() != 12 {
		t.Errorf("Actor.MaxHP() = %d, want %d", p.Actor.MaxHP(), 12)
	}
	if p.Actor.AC() != 14 {
		t.Errorf("Actor.AC() = %d, want %d", p.Actor.AC(), 14)
	}
	if v, ok := p.Attribute("strength"); !ok || v != 16 {
		t.Errorf("Attribute(strength) = %d, %v, want 16", v, ok)
	}

	if _, err := NewPlayer(PlayerSpec{}); err == nil {
		t.Error("Expected error for zero max hp")
	}
}

func TestPlayer_WoundAndHeal(t *testing.T) {
	p, err := NewPlayer(DefaultPlayerSpec())
	if err != nil {
		t.Fatalf("NewPlayer() error = %v", err)
	}

	dead, err := p.Wound(4)
	if err != nil || dead {
		t.Fatalf("Wound(4) = %v, %v", dead, err)
	}
	if p.HP() != 6 || p.Actor.HP() != 6 {
		t.Errorf("Expected HP 6, got %d (actor %d)", p.HP(), p.Actor.HP())
	}
	if p.Spec.HP != 10 {
		t.Errorf("Spec.HP should only change on encode, got %d", p.Spec.HP)
	}
	if p.Condition() != "You have a serious wound." {
		t.Errorf("Unexpected condition %q", p.Condition())
	}

	dead, err = p.Wound(100)
	if err != nil || !dead {
		t.Fatalf("Wound(100) = %v, %v", dead, err)
	}
	if p.Alive() || !p.Actor.IsKnockedOut() {
		t.Error("Expected player to be dead")
	}

	if err := p.Heal(); err != nil {
		t.Fatalf("Heal() error = %v", err)
	}
	if p.HP() != p.Spec.MaxHP || p.Actor.HP() != p.Spec.MaxHP {
		t.Errorf("Expected full health after heal, got spec %d actor %d", p.HP(), p.Actor.HP())
	}
}

func TestPlayer_RebuildAfterDecode(t *testing.T) {
	p, _ := NewPlayer(DefaultPlayerSpec())
	if _, err := p.Wound(3); err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var decoded Player
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.Actor != nil {
		t.Fatal("Expected actor to be skipped by JSON")
	}
	if decoded.Spec.HP != 7 {
		t.Errorf("Expected encoded HP 7 read from the actor, got %d", decoded.Spec.HP)
	}
	if err := decoded.Rebuild(); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if decoded.Actor.HP() != 7 {
		t.Errorf("Expected rebuilt HP 7, got %d", decoded.Actor.HP())
	}
}

func TestPlayer_Recover(t *testing.T) {
	p, _ := NewPlayer(DefaultPlayerSpec())
	if _, err := p.Wound(5); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		amount int
		want   int
	}{
		{"partial", 2, 7},
		{"ignores non-positive", -3, 7},
		{"capped at max", 50, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := p.Recover(tt.amount); err != nil {
				t.Fatalf("Recover() error = %v", err)
			}
			if p.HP() != tt.want {
				t.Errorf("HP() = %d, want %d", p.HP(), tt.want)
			}
		})
	}

	var unbuilt Player
	if _, err := unbuilt.Wound(1); err == nil {
		t.Error("Expected error wounding a player without an actor")
	}
}

func TestPlayer_Modifier(t *testing.T) {
	p, _ := NewPlayer(PlayerSpec{MaxHP: 5, Attributes: map[string]int{"strength": 15, "dexterity": 9, "wisdom": 10}})

	tests := []struct {
		key  string
		want int
	}{
		{"strength", 2},
		{"dexterity", -1},
		{"wisdom", 0},
		{"charisma", 0},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := p.Modifier(tt.key); got != tt.want {
				t.Errorf("Modifier(%s) = %d, want %d", tt.key, got, tt.want)
			}
		})
	}
}
