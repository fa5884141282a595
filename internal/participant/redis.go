package participant

// 定义与参与者相关的Redis键名
const (
	// NamesKey 是一个Hash，缓存所有参与者的展示名。
	// Field: participant id, Value: "Nachname, Vorname"
	NamesKey = "participant:names"
)
