package metadata

// --- Database Keys ---
// 这些键用于metadata表的key列
const (
	// LastBackupAtKey 记录最近一次成功备份的时间 (RFC3339)
	LastBackupAtKey = "last_backup_at"

	// LastSeedAtKey 记录最近一次导入种子数据的时间 (RFC3339)
	LastSeedAtKey = "last_seed_at"
)
