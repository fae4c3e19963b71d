package data

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/burrowstrike/core/internal/enemy"
)

// EnemyTemplate is one enemy kind as written in enemy_list.yaml.
type EnemyTemplate struct {
	EnemyID         int32       `yaml:"enemy_id"`
	Name            string      `yaml:"name"`
	AttackType      string      `yaml:"attack_type"` // melee, ranged, aoe, suicide_bomber
	MaxHealth       int         `yaml:"max_health"`
	Countdown       float64     `yaml:"countdown"` // seconds
	Score           int         `yaml:"score"`
	ProjectileSpeed float64     `yaml:"projectile_speed"`
	Script          string      `yaml:"script"`
	HitFlash        float64     `yaml:"hit_flash"` // seconds
	Patrol          PatrolEntry `yaml:"patrol"`
}

// PatrolEntry is the patrol block of an enemy template. Times are seconds.
type PatrolEntry struct {
	Enabled   bool    `yaml:"enabled"`
	Speed     float64 `yaml:"speed"`
	Left      float64 `yaml:"left"`
	Right     float64 `yaml:"right"`
	IdleMin   float64 `yaml:"idle_min"`
	IdleMax   float64 `yaml:"idle_max"`
	PatrolMin float64 `yaml:"patrol_min"`
	PatrolMax float64 `yaml:"patrol_max"`
}

type enemyListFile struct {
	Enemies []EnemyTemplate `yaml:"enemies"`
}

// EnemyTable holds runtime enemy templates indexed by EnemyID.
type EnemyTable struct {
	templates map[int32]*enemy.Template
	order     []int32
}

// LoadEnemyTable loads enemy templates from a YAML file.
func LoadEnemyTable(path string) (*EnemyTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read enemy_list: %w", err)
	}
	var f enemyListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse enemy_list: %w", err)
	}
	t := &EnemyTable{templates: make(map[int32]*enemy.Template, len(f.Enemies))}
	for i := range f.Enemies {
		e := &f.Enemies[i]
		if err := e.validate(); err != nil {
			return nil, fmt.Errorf("enemy_list %d (%s): %w", e.EnemyID, e.Name, err)
		}
		if _, dup := t.templates[e.EnemyID]; dup {
			return nil, fmt.Errorf("enemy_list: duplicate enemy_id %d", e.EnemyID)
		}
		t.templates[e.EnemyID] = e.toTemplate()
		t.order = append(t.order, e.EnemyID)
	}
	return t, nil
}

func (e *EnemyTemplate) validate() error {
	if e.MaxHealth <= 0 {
		return fmt.Errorf("max_health must be positive")
	}
	if e.Countdown < 0 {
		return fmt.Errorf("countdown must not be negative")
	}
	switch enemy.AttackType(e.AttackType) {
	case "", enemy.AttackMelee, enemy.AttackRanged, enemy.AttackAoE, enemy.AttackSuicide:
	default:
		return fmt.Errorf("unknown attack_type %q", e.AttackType)
	}
	if e.Patrol.Enabled && e.Patrol.Left > e.Patrol.Right {
		return fmt.Errorf("patrol left %.2f is right of %.2f", e.Patrol.Left, e.Patrol.Right)
	}
	return nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func (e *EnemyTemplate) toTemplate() *enemy.Template {
	at := enemy.AttackType(e.AttackType)
	if at == "" {
		at = enemy.AttackMelee
	}
	return &enemy.Template{
		ID:              e.EnemyID,
		Name:            e.Name,
		AttackType:      at,
		MaxHealth:       e.MaxHealth,
		Countdown:       seconds(e.Countdown),
		Score:           e.Score,
		ProjectileSpeed: e.ProjectileSpeed,
		Script:          e.Script,
		HitFlash:        seconds(e.HitFlash),
		Patrol: enemy.PatrolTemplate{
			Enabled:   e.Patrol.Enabled,
			Speed:     e.Patrol.Speed,
			Left:      e.Patrol.Left,
			Right:     e.Patrol.Right,
			IdleMin:   seconds(e.Patrol.IdleMin),
			IdleMax:   seconds(e.Patrol.IdleMax),
			PatrolMin: seconds(e.Patrol.PatrolMin),
			PatrolMax: seconds(e.Patrol.PatrolMax),
		},
	}
}

// Get returns an enemy template by ID, or nil if not found.
func (t *EnemyTable) Get(id int32) *enemy.Template {
	return t.templates[id]
}

// Count returns the number of loaded templates.
func (t *EnemyTable) Count() int {
	return len(t.templates)
}

// IDs returns template IDs in file order.
func (t *EnemyTable) IDs() []int32 {
	return t.order
}
