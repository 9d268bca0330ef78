// Package clip provides data structures and parsers for motion clip files.
// A clip file is the JSON output of the pose sampler: per-frame 2D joint
// positions captured from a source video, plus the video metadata.
package clip

// Joint names referenced by the skeleton.
const (
	JointPelvis        = "pelvis"
	JointUpperNeck     = "upper_neck"
	JointHeadTop       = "head_top"
	JointRightHip      = "right_hip"
	JointRightKnee     = "right_knee"
	JointRightAnkle    = "right_ankle"
	JointLeftHip       = "left_hip"
	JointLeftKnee      = "left_knee"
	JointLeftAnkle     = "left_ankle"
	JointRightShoulder = "right_shoulder"
	JointRightElbow    = "right_elbow"
	JointRightWrist    = "right_wrist"
	JointLeftShoulder  = "left_shoulder"
	JointLeftElbow     = "left_elbow"
	JointLeftWrist     = "left_wrist"
)

// RootJoint is the joint used for centering and stitch alignment.
const RootJoint = JointPelvis

// File is the root structure of a clip file.
type File struct {
	// VideoInfo describes the source video the joints were sampled from
	VideoInfo VideoInfo `json:"video_info"`

	// Frames is the ordered list of sampled frames
	Frames []Frame `json:"frames"`
}

// VideoInfo holds per-clip metadata.
type VideoInfo struct {
	FPS         float64 `json:"fps"`
	TotalFrames int     `json:"total_frames"`

	// Resolution is stored as [height, width], the order the sampler writes it
	Resolution []int `json:"resolution"`
}

// Size returns the canvas width and height declared by the clip.
// ok is false when the resolution field is missing or malformed.
func (v VideoInfo) Size() (width, height int, ok bool) {
	if len(v.Resolution) != 2 || v.Resolution[0] <= 0 || v.Resolution[1] <= 0 {
		return 0, 0, false
	}
	return v.Resolution[1], v.Resolution[0], true
}

// Frame is one sampled frame. The joint set is not guaranteed to be the
// same across frames; always check presence before use.
type Frame struct {
	FrameNumber int     `json:"frame_number"`
	Timestamp   float64 `json:"timestamp"`
	Joints      Pose    `json:"joints"`
}

// Joint is a named 2D landmark in source pixel space.
type Joint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`

	// Confidence is informational only, rendering never consults it
	Confidence float64 `json:"confidence"`
}

// Pose maps joint names to positions for a single frame.
type Pose map[string]Joint

// Translated returns a copy of the pose shifted by (dx, dy).
func (p Pose) Translated(dx, dy float64) Pose {
	out := make(Pose, len(p))
	for name, j := range p {
		j.X += dx
		j.Y += dy
		out[name] = j
	}
	return out
}

// Clone returns a deep copy of the frame so callers can mutate joints freely.
func (f Frame) Clone() Frame {
	out := f
	out.Joints = make(Pose, len(f.Joints))
	for name, j := range f.Joints {
		out.Joints[name] = j
	}
	return out
}

// Root returns the root joint of the frame, if present.
func (f Frame) Root() (Joint, bool) {
	j, ok := f.Joints[RootJoint]
	return j, ok
}
