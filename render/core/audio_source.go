package core

// AudioSource names a clip to play at the entity's position. Playback itself
// belongs to an external audio system.
type AudioSource struct {
	Clip    string
	Loop    bool
	playing bool
}

func (a *AudioSource) Play()           { a.playing = true }
func (a *AudioSource) Stop()           { a.playing = false }
func (a *AudioSource) IsPlaying() bool { return a.playing }
