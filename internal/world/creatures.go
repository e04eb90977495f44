package world

import "keeper-client/pkg/protocol"

// AddClass регистрирует класс существа. Повторное добавление - ошибка, классы не меняются.
func (r *Replica) AddClass(d protocol.CreatureDefinitionData) (*CreatureDefinition, error) {
	if _, ok := r.classes[d.ClassName]; ok {
		return nil, duplicate("creature class %q", d.ClassName)
	}
	def := &CreatureDefinition{CreatureDefinitionData: d}
	r.classes[d.ClassName] = def
	return def, nil
}

func (r *Replica) Class(name string) *CreatureDefinition { return r.classes[name] }

// AddCreature создаёт существо. Класс обязан быть уже известен.
func (r *Replica) AddCreature(d protocol.CreatureData) (*Creature, error) {
	if _, ok := r.creatures[d.Name]; ok {
		return nil, duplicate("creature %q", d.Name)
	}
	class := r.classes[d.ClassName]
	if class == nil {
		return nil, unresolved("class %q for creature %q", d.ClassName, d.Name)
	}

	c := &Creature{Name: d.Name}
	applyCreatureData(c, class, d)
	r.creatures[c.Name] = c

	r.renderer.CreateVisual(c)
	r.renderer.CreateVisual(weaponVisual{owner: c, side: "L"})
	r.renderer.CreateVisual(weaponVisual{owner: c, side: "R"})
	return c, nil
}

func applyCreatureData(c *Creature, class *CreatureDefinition, d protocol.CreatureData) {
	c.Class = class
	c.Position = d.Position
	c.Color = int(d.Color)
	c.Level = int(d.Level)
	c.HP = d.HP
	c.Mana = d.Mana
	c.WeaponL = weaponFrom(d.WeaponL)
	c.WeaponR = weaponFrom(d.WeaponR)
}

func (r *Replica) Creature(name string) *Creature { return r.creatures[name] }

func (r *Replica) NumCreatures() int { return len(r.creatures) }

// RemoveCreature удаляет существо; если оно было в руке игрока, рука освобождается.
func (r *Replica) RemoveCreature(name string) error {
	c, ok := r.creatures[name]
	if !ok {
		return unresolved("creature %q", name)
	}
	if c.HeldBy != nil {
		c.HeldBy.Held = nil
		c.HeldBy = nil
	}
	delete(r.creatures, name)

	r.renderer.DestroyVisual(weaponVisual{owner: c, side: "L"})
	r.renderer.DestroyVisual(weaponVisual{owner: c, side: "R"})
	r.renderer.DestroyVisual(c)
	return nil
}

// RefreshCreature копирует состояние из полностью разобранного временного значения.
// Состояние "в руке" и траектория не трогаются: они управляются отдельными сообщениями.
func (r *Replica) RefreshCreature(d protocol.CreatureData) (*Creature, error) {
	c, ok := r.creatures[d.Name]
	if !ok {
		return nil, unresolved("creature %q", d.Name)
	}
	class := r.classes[d.ClassName]
	if class == nil {
		return nil, unresolved("class %q for creature %q", d.ClassName, d.Name)
	}
	applyCreatureData(c, class, d)
	return c, nil
}

// --- Pick up / drop ---

// PickUp переводит существо с карты в руку игрока.
// У игрока в руке не больше одного существа, существо - не больше чем в одной руке.
func (r *Replica) PickUp(p *Player, c *Creature) error {
	if c.HeldBy != nil {
		return invalidState("creature %q already held by %q", c.Name, c.HeldBy.Nick)
	}
	if p.Held != nil {
		return invalidState("player %q already holds %q", p.Nick, p.Held.Name)
	}
	c.HeldBy = p
	p.Held = c
	return nil
}

// Drop опускает существо из руки игрока в центр тайла.
func (r *Replica) Drop(p *Player, t *Tile) (*Creature, error) {
	c := p.Held
	if c == nil {
		return nil, invalidState("player %q holds no creature", p.Nick)
	}
	c.HeldBy = nil
	c.Position = protocol.Vector3{X: float64(t.X), Y: float64(t.Y), Z: c.Position.Z}
	p.Held = nil
	return c, nil
}

// --- Анимированные объекты ---

// AnimatedObject ищет движущийся объект по имени: сначала существа, затем снаряды.
func (r *Replica) AnimatedObject(name string) (*Motion, error) {
	if c, ok := r.creatures[name]; ok {
		return &c.Motion, nil
	}
	if m, ok := r.missiles[name]; ok {
		return &m.Motion, nil
	}
	return nil, unresolved("animated object %q", name)
}
