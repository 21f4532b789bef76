package components

// SectionComponent 页面章节
// 章节在启动时由页面工厂创建，之后不再改变
type SectionComponent struct {
	ID     string   // 章节ID（同页面唯一）
	Title  string   // 标题
	Body   []string // 正文段落
	Index  int      // 文档顺序
	Top    float64  // 文档坐标中的顶部偏移（像素）
	Height float64  // 高度（像素）
}
