package scenes

import (
	"github.com/decker502/questhud/pkg/game"
)

// Scene 是 game.Scene 的别名
type Scene = game.Scene

var (
	_ Scene           = (*StoryScene)(nil)
	_ game.Disposable = (*StoryScene)(nil)
)
