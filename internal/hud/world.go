package hud

// PlayerStatus holds the numeric player state the widgets render. The HUD
// only reads it; gameplay code owns the values and announces changes on the
// bus.
type PlayerStatus struct {
	Health    float64
	MaxHealth float64

	Ammo         int
	MagazineSize int
	Reserve      int

	Stamina    float64
	MaxStamina float64
}

// World is the shared world/player view the HUD pulls from every frame.
// It is plain data: the host mutates it, the HUD reads it.
type World struct {
	Player   Pose
	Camera   Pose
	Status   PlayerStatus
	Viewport Viewport
}

// NewWorld creates a world with a full, healthy default loadout.
func NewWorld(vp Viewport) *World {
	return &World{
		Viewport: vp,
		Status: PlayerStatus{
			Health:       100,
			MaxHealth:    100,
			Ammo:         30,
			MagazineSize: 30,
			Reserve:      90,
			Stamina:      100,
			MaxStamina:   100,
		},
	}
}

// PoseSnapshot is the camera and player state captured once at the top of an
// update tick. Every screen position and distance computed during that tick
// derives from the same snapshot, so a frame never mixes stale and fresh
// poses.
type PoseSnapshot struct {
	Player   Pose
	Camera   Pose
	Viewport Viewport
}

// Snapshot captures the current poses and viewport.
func (w *World) Snapshot() PoseSnapshot {
	if w == nil {
		return PoseSnapshot{}
	}
	return PoseSnapshot{
		Player:   w.Player,
		Camera:   w.Camera,
		Viewport: w.Viewport,
	}
}
