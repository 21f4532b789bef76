package components

// FormControlComponent 表单控件
//
// 对应页面上的 input / select / textarea。
// Disabled、ReadOnly、Type 属于"属性"：修改后必须调用
// EntityManager.NotifyAttributeChanged，以便控件统计重新计算。
type FormControlComponent struct {
	SectionID string // 所属章节
	Name      string // 控件名称（文本模板变量名）
	Label     string // 显示标签

	Kind string // "input" / "select" / "textarea"
	Type string // input 类型，如 "text" / "checkbox" / "submit"

	Value       string   // 当前值
	Options     []string // select 候选项
	OptionIndex int      // select 当前选项
	Checked     bool     // checkbox 是否勾选

	Disabled bool     // 禁用
	ReadOnly bool     // 只读
	Enables  []string // checkbox 勾选时解除禁用的控件

	// 输入状态
	Focused          bool    // 是否获得焦点
	CursorPosition   int     // 光标位置（rune 索引）
	CursorVisible    bool    // 光标闪烁
	CursorBlinkTimer float64 // 光标闪烁计时器（秒）
}

// 控件属性名（用于属性变化通知）
const (
	AttrDisabled = "disabled"
	AttrReadOnly = "readonly"
	AttrType     = "type"
	AttrValue    = "value"
	AttrChecked  = "checked"
)
