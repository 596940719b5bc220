package bakery

import (
	"errors"
	"fmt"

	"motionbake/cmd/bake/anim"
	"motionbake/cmd/bake/cornerpin"
	"motionbake/cmd/bake/rigid"
)

// NoTracksError reports a tracker without any tracked point.
type NoTracksError struct {
	Tracker string
}

func (e *NoTracksError) Error() string {
	return fmt.Sprintf("no tracks on tracker %s", e.Tracker)
}

// Kind classifies bake errors for the host.
type Kind int

const (
	KindUnknown Kind = iota
	KindNoTracks
	KindIncompatibleChannel
	KindInsufficientTracks
	KindDegenerateScale
	KindCornerPinBake
)

func (k Kind) String() string {
	switch k {
	case KindNoTracks:
		return "NoTracks"
	case KindIncompatibleChannel:
		return "IncompatibleChannel"
	case KindInsufficientTracks:
		return "InsufficientTracks"
	case KindDegenerateScale:
		return "DegenerateScale"
	case KindCornerPinBake:
		return "CornerPinBake"
	}
	return "Unknown"
}

// KindOf returns the kind of err, looking through wrapping.
func KindOf(err error) Kind {
	var (
		nte *NoTracksError
		ice *anim.IncompatibleChannelError
		ite *cornerpin.InsufficientTracksError
		dse *rigid.DegenerateScaleError
		cbe *cornerpin.CornerPinBakeError
	)
	switch {
	case errors.As(err, &nte):
		return KindNoTracks
	case errors.As(err, &cbe):
		return KindCornerPinBake
	case errors.As(err, &ice):
		return KindIncompatibleChannel
	case errors.As(err, &ite):
		return KindInsufficientTracks
	case errors.As(err, &dse):
		return KindDegenerateScale
	}
	return KindUnknown
}
