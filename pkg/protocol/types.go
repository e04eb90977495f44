package protocol

import "keeper-client/pkg/wire"

// --- Составные значения (DTO) ---
// Порядок полей в encode/decode и есть схема. Менять только парно.

type Vector3 struct {
	X float64 `msgpack:"x" json:"x"`
	Y float64 `msgpack:"y" json:"y"`
	Z float64 `msgpack:"z" json:"z"`
}

func (v Vector3) encode(w *wire.Writer) {
	w.Float64(v.X)
	w.Float64(v.Y)
	w.Float64(v.Z)
}

func (v *Vector3) decode(r *wire.Reader) {
	v.X = r.Float64()
	v.Y = r.Float64()
	v.Z = r.Float64()
}

// TileData - тайл в том виде, в каком он передаётся по сети.
// Для сообщений-ссылок (dropCreature, removeRoomTile, ...) значимы только X и Y.
type TileData struct {
	X        int32
	Y        int32
	Type     TileType
	Fullness float64
	Color    int32
}

func (t TileData) encode(w *wire.Writer) {
	w.Int32(t.X)
	w.Int32(t.Y)
	w.Int32(int32(t.Type))
	w.Float64(t.Fullness)
	w.Int32(t.Color)
}

func (t *TileData) decode(r *wire.Reader) {
	t.X = r.Int32()
	t.Y = r.Int32()
	t.Type = TileType(r.Enum(int32(tileTypeCount), "tile type"))
	t.Fullness = r.Float64()
	t.Color = r.Int32()
}

// TileRef - ссылка на тайл по координатам (остальные поля нулевые).
func TileRef(x, y int) TileData {
	return TileData{X: int32(x), Y: int32(y)}
}

type SeatData struct {
	Color           int32
	Faction         string
	Team            int32
	StartingX       int32
	StartingY       int32
	Gold            int32
	Mana            float64
	ManaDelta       float64
	NumClaimedTiles int32
}

func (s SeatData) encode(w *wire.Writer) {
	w.Int32(s.Color)
	w.String(s.Faction)
	w.Int32(s.Team)
	w.Int32(s.StartingX)
	w.Int32(s.StartingY)
	w.Int32(s.Gold)
	w.Float64(s.Mana)
	w.Float64(s.ManaDelta)
	w.Int32(s.NumClaimedTiles)
}

func (s *SeatData) decode(r *wire.Reader) {
	s.Color = r.Int32()
	s.Faction = r.String()
	s.Team = r.Int32()
	s.StartingX = r.Int32()
	s.StartingY = r.Int32()
	s.Gold = r.Int32()
	s.Mana = r.Float64()
	s.ManaDelta = r.Float64()
	s.NumClaimedTiles = r.Int32()
}

type WeaponData struct {
	Name    string
	Damage  float64
	Range   float64
	Defense float64
}

func (wd WeaponData) encode(w *wire.Writer) {
	w.String(wd.Name)
	w.Float64(wd.Damage)
	w.Float64(wd.Range)
	w.Float64(wd.Defense)
}

func (wd *WeaponData) decode(r *wire.Reader) {
	wd.Name = r.String()
	wd.Damage = r.Float64()
	wd.Range = r.Float64()
	wd.Defense = r.Float64()
}

// CreatureData - полное состояние существа (addCreature, creatureRefresh).
type CreatureData struct {
	ClassName string
	Name      string
	Position  Vector3
	Color     int32
	Level     int32
	HP        float64
	Mana      float64
	WeaponL   WeaponData
	WeaponR   WeaponData
}

func (c CreatureData) encode(w *wire.Writer) {
	w.String(c.ClassName)
	w.String(c.Name)
	c.Position.encode(w)
	w.Int32(c.Color)
	w.Int32(c.Level)
	w.Float64(c.HP)
	w.Float64(c.Mana)
	c.WeaponL.encode(w)
	c.WeaponR.encode(w)
}

func (c *CreatureData) decode(r *wire.Reader) {
	c.ClassName = r.String()
	c.Name = r.String()
	c.Position.decode(r)
	c.Color = r.Int32()
	c.Level = r.Int32()
	c.HP = r.Float64()
	c.Mana = r.Float64()
	c.WeaponL.decode(r)
	c.WeaponR.decode(r)
}

// CreatureDefinitionData - класс существа (addClass).
type CreatureDefinitionData struct {
	Job          CreatureJob
	ClassName    string
	MeshName     string
	BedMeshName  string
	BedDim1      int32
	BedDim2      int32
	Scale        Vector3
	SightRadius  float64
	DigRate      float64
	DanceRate    float64
	HPPerLevel   float64
	ManaPerLevel float64
	MaxHP        float64
	MaxMana      float64
	MoveSpeed    float64

	// Коэффициенты вероятности прихода через портал.
	CoefficientHumans     float64
	CoefficientCorpars    float64
	CoefficientUndead     float64
	CoefficientConstructs float64
	CoefficientDenizens   float64
	CoefficientAltruism   float64
	CoefficientOrder      float64
	CoefficientPeace      float64
}

func (d CreatureDefinitionData) encode(w *wire.Writer) {
	w.Int32(int32(d.Job))
	w.String(d.ClassName)
	w.String(d.MeshName)
	w.String(d.BedMeshName)
	w.Int32(d.BedDim1)
	w.Int32(d.BedDim2)
	d.Scale.encode(w)
	for _, v := range []float64{
		d.SightRadius, d.DigRate, d.DanceRate, d.HPPerLevel, d.ManaPerLevel,
		d.MaxHP, d.MaxMana, d.MoveSpeed,
		d.CoefficientHumans, d.CoefficientCorpars, d.CoefficientUndead, d.CoefficientConstructs,
		d.CoefficientDenizens, d.CoefficientAltruism, d.CoefficientOrder, d.CoefficientPeace,
	} {
		w.Float64(v)
	}
}

func (d *CreatureDefinitionData) decode(r *wire.Reader) {
	d.Job = CreatureJob(r.Enum(int32(creatureJobCount), "creature job"))
	d.ClassName = r.String()
	d.MeshName = r.String()
	d.BedMeshName = r.String()
	d.BedDim1 = r.Int32()
	d.BedDim2 = r.Int32()
	d.Scale.decode(r)
	for _, p := range []*float64{
		&d.SightRadius, &d.DigRate, &d.DanceRate, &d.HPPerLevel, &d.ManaPerLevel,
		&d.MaxHP, &d.MaxMana, &d.MoveSpeed,
		&d.CoefficientHumans, &d.CoefficientCorpars, &d.CoefficientUndead, &d.CoefficientConstructs,
		&d.CoefficientDenizens, &d.CoefficientAltruism, &d.CoefficientOrder, &d.CoefficientPeace,
	} {
		*p = r.Float64()
	}
}

type MapLightData struct {
	Name                 string
	Position             Vector3
	Diffuse              Vector3
	Specular             Vector3
	AttenuationRange     float64
	AttenuationConstant  float64
	AttenuationLinear    float64
	AttenuationQuadratic float64
}

func (l MapLightData) encode(w *wire.Writer) {
	w.String(l.Name)
	l.Position.encode(w)
	l.Diffuse.encode(w)
	l.Specular.encode(w)
	w.Float64(l.AttenuationRange)
	w.Float64(l.AttenuationConstant)
	w.Float64(l.AttenuationLinear)
	w.Float64(l.AttenuationQuadratic)
}

func (l *MapLightData) decode(r *wire.Reader) {
	l.Name = r.String()
	l.Position.decode(r)
	l.Diffuse.decode(r)
	l.Specular.decode(r)
	l.AttenuationRange = r.Float64()
	l.AttenuationConstant = r.Float64()
	l.AttenuationLinear = r.Float64()
	l.AttenuationQuadratic = r.Float64()
}

type MissileObjectData struct {
	Name      string
	MeshName  string
	Position  Vector3
	Direction Vector3
}

func (m MissileObjectData) encode(w *wire.Writer) {
	w.String(m.Name)
	w.String(m.MeshName)
	m.Position.encode(w)
	m.Direction.encode(w)
}

func (m *MissileObjectData) decode(r *wire.Reader) {
	m.Name = r.String()
	m.MeshName = r.String()
	m.Position.decode(r)
	m.Direction.decode(r)
}

type RoomObjectData struct {
	Name     string
	MeshName string
}

func (o RoomObjectData) encode(w *wire.Writer) {
	w.String(o.Name)
	w.String(o.MeshName)
}

func (o *RoomObjectData) decode(r *wire.Reader) {
	o.Name = r.String()
	o.MeshName = r.String()
}

// Rect - прямоугольная выделенная область (запросы ask*).
type Rect struct {
	X1, Y1, X2, Y2 int32
}

func (rc Rect) encode(w *wire.Writer) {
	w.Int32(rc.X1)
	w.Int32(rc.Y1)
	w.Int32(rc.X2)
	w.Int32(rc.Y2)
}

func (rc *Rect) decode(r *wire.Reader) {
	rc.X1 = r.Int32()
	rc.Y1 = r.Int32()
	rc.X2 = r.Int32()
	rc.Y2 = r.Int32()
}

func encodeTiles(w *wire.Writer, tiles []TileData) {
	w.Int32(int32(len(tiles)))
	for _, t := range tiles {
		t.encode(w)
	}
}

func decodeTiles(r *wire.Reader) []TileData {
	n := r.Count("tiles")
	tiles := make([]TileData, 0, n)
	for i := 0; i < n && r.Err() == nil; i++ {
		var t TileData
		t.decode(r)
		tiles = append(tiles, t)
	}
	return tiles
}
