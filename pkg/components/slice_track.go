package components

// SliceTrackComponent 记录切割指针穿过水果的过程
// 指针进入检测圆时记录入口，离开时用入口到出口的距离判断是否构成一刀
type SliceTrackComponent struct {
	Inside bool
	EntryX float64
	EntryY float64
}
