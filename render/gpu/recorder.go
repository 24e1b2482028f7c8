package gpu

type CommandKind int

const (
	CmdBeginFrame CommandKind = iota
	CmdSetRenderTarget
	CmdSetClearColor
	CmdClearScreen
	CmdDraw
	CmdPresent
)

func (k CommandKind) String() string {
	switch k {
	case CmdBeginFrame:
		return "BeginFrame"
	case CmdSetRenderTarget:
		return "SetRenderTarget"
	case CmdSetClearColor:
		return "SetClearColor"
	case CmdClearScreen:
		return "ClearScreen"
	case CmdDraw:
		return "Draw"
	case CmdPresent:
		return "Present"
	}
	return "Unknown"
}

// Command is one recorded device call.
type Command struct {
	Kind   CommandKind
	Target *RenderTexture
	Face   int
	Flags  ClearFlags
	Color  [3]float32
	Draw   DrawCall
}

// Recorder is a Device that executes nothing and records every call in order.
// It backs headless runs and tests. Commands holds the current frame only,
// unless KeepHistory is set.
type Recorder struct {
	Commands    []Command
	KeepHistory bool

	stats      Stats
	pending    error
	lastShader *Shader
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) BeginFrame() error {
	if !r.KeepHistory {
		r.Reset()
	}
	r.Commands = append(r.Commands, Command{Kind: CmdBeginFrame})
	return nil
}

func (r *Recorder) SetRenderTarget(target *RenderTexture, face int) {
	r.stats.RenderTargetBinds++
	r.lastShader = nil
	r.Commands = append(r.Commands, Command{Kind: CmdSetRenderTarget, Target: target, Face: face})
}

func (r *Recorder) SetClearColor(red, green, blue float32) {
	r.Commands = append(r.Commands, Command{Kind: CmdSetClearColor, Color: [3]float32{red, green, blue}})
}

func (r *Recorder) ClearScreen(flags ClearFlags) {
	if flags != ClearDontClear {
		r.stats.Clears++
	}
	r.Commands = append(r.Commands, Command{Kind: CmdClearScreen, Flags: flags})
}

func (r *Recorder) Draw(call DrawCall) {
	r.stats.DrawCalls++
	if call.Shader != r.lastShader {
		r.stats.ShaderBinds++
		r.lastShader = call.Shader
	}
	r.Commands = append(r.Commands, Command{Kind: CmdDraw, Draw: call})
}

func (r *Recorder) Present() error {
	r.Commands = append(r.Commands, Command{Kind: CmdPresent})
	return nil
}

// FailNextErrorCheck makes the next ErrorCheck return err.
func (r *Recorder) FailNextErrorCheck(err error) {
	r.pending = err
}

func (r *Recorder) ErrorCheck(tag string) error {
	err := r.pending
	r.pending = nil
	return err
}

func (r *Recorder) ResetFrameStatistics() {
	r.stats = Stats{}
}

func (r *Recorder) Stats() Stats {
	return r.stats
}

// Reset drops all recorded commands.
func (r *Recorder) Reset() {
	r.Commands = r.Commands[:0]
}

// Draws returns every recorded draw, optionally filtered by shader name.
func (r *Recorder) Draws(shaderName string) []DrawCall {
	var out []DrawCall
	for _, c := range r.Commands {
		if c.Kind != CmdDraw {
			continue
		}
		if shaderName != "" && (c.Draw.Shader == nil || c.Draw.Shader.Name != shaderName) {
			continue
		}
		out = append(out, c.Draw)
	}
	return out
}

// Of returns the recorded commands of one kind.
func (r *Recorder) Of(kind CommandKind) []Command {
	var out []Command
	for _, c := range r.Commands {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}
