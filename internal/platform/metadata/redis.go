package metadata

const (
	// RedisHashKey 是一个Redis Hash，镜像了metadata表中的所有键值对。
	// Field: 元数据键, Value: 元数据值
	RedisHashKey = "meta"
)
