package i18n

// ZhCNMessages 简体中文消息目录
var ZhCNMessages = map[string]string{
	// 连接状态
	"status.not_connected": "未连接",
	"status.connecting":    "连接中...",
	"status.connected":     "已连接：%s",
	"status.lapsed":        "%s 的权限已失效，请重新连接",
	"status.store_error":   "未连接（无法读取已保存的连接）",
	"status.error":         "连接错误：%s",

	// connect
	"connect.ok":        "已连接到 %s",
	"connect.cancelled": "已取消连接",
	"connect.denied":    "%s 的写入权限被拒绝",
	"connect.error":     "连接失败：%s",

	// add / append
	"append.updated":           "记录已于 %[2]s 追加到 %[1]s",
	"append.not_connected":     "未连接，请先运行 `sheetsync connect`。",
	"append.permission_denied": "%s 的写入权限被拒绝",
	"append.format_error":      "%s 不是有效的工作簿，文件未被修改",
	"append.cancelled":         "已取消连接，记录未写入",
	"append.error":             "追加失败：%s",
	"append.invalid":           "记录无效：%s",

	// 本地历史
	"history.saved":   "已在本地保存为 %s",
	"history.removed": "已删除 %s",
	"history.empty":   "没有本地记录。",
	"history.error":   "本地历史未保存：%s",

	"import.done": "已导入 %d/%d 条记录",
	"show.empty":  "工作簿中还没有记录。",

	"disconnect.ok": "已断开连接",
	"init.created":  "项目配置位于 %s",

	// 提示
	"prompt.pick_target": "工作簿保存为 [%s]：",
	"prompt.elevate":     "%s 不可写，是否授予写入权限？[y/N]：",

	"dialog.title": "选择工作簿的保存位置",
	"dialog.hint":  "enter 确认 · esc 取消",

	"shell.welcome":   "sheetsync 交互模式，输入 /help 查看命令。",
	"shell.help":      "/connect  /status  /add  /show  /history  /disconnect  /quit",
	"shell.unknown":   "未知命令：%s",
	"shell.add_usage": "用法：/add <日期> | <姓名> | <联系方式> | <地址> | <体积>",
}
