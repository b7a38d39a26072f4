package model

// WeaponType is the projectile kind carried by a weapon packet.
type WeaponType uint8

const (
	WeaponNull WeaponType = iota
	WeaponBullet
	WeaponBounceBullet
	WeaponBomb
	WeaponProxBomb
	WeaponRepel
	WeaponDecoy
	WeaponBurst
	WeaponThor
)

// Weapon describes a fired projectile.
type Weapon struct {
	Type          WeaponType
	Level         uint8 // 0-3
	ShrapBouncing bool
	ShrapLevel    uint8 // 0-3
	Shrap         uint8 // 0-31
	Alternate     bool  // multifire for guns, mines for bombs
}

// Shot is a weapon fired by a player at a position, addressed to one receiver.
type Shot struct {
	ShooterID int32
	Weapon    Weapon
	Position  Position
	Time      uint16 // low 16 bits of the server tick
}
