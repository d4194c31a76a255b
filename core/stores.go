package core

// ProfileStore persists one profile document per user id.
//
// Load of a missing resource must return a freshly created default profile,
// never an error; a present but unparsable resource falls back to the default
// while leaving the original file untouched for forensic inspection. These
// graceful-degradation contracts are what new users rely on.
type ProfileStore interface {
	Load(userID string) (*Profile, error)
	Save(profile *Profile) error
}

// MemoryStore persists one memory document (history + context) per user id,
// stored alongside the profile. The same missing/corrupt resource contracts
// as ProfileStore apply.
type MemoryStore interface {
	Load(userID string) (*Memory, error)
	Save(userID string, memory *Memory) error
}
