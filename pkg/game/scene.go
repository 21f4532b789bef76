package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 场景（故事页面）
// 每个场景有自己的更新和渲染逻辑
type Scene interface {
	// Update 更新场景逻辑，deltaTime 为距上一帧的秒数
	Update(deltaTime float64)

	// Draw 渲染场景
	Draw(screen *ebiten.Image)
}

// Disposable 是一个可选接口，场景被替换或程序退出时释放资源
//
// 实现此接口的场景会在以下时机被调用 Dispose()：
//   - F5 重新加载（旧场景被新场景替换）
//   - 程序正常退出
type Disposable interface {
	Dispose()
}
