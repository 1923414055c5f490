package classify

import (
	"fmt"
	"strconv"
)

// gdspTypes names the data categories of the device sync protocol by type code.
// Read-only after init.
var gdspTypes = map[int]string{
	0x01: "Wristlet",
	0x02: "Heart rate",
	0x03: "ECG",
	0x04: "Temperature",
	0x05: "Sport summary",
	0x06: "Sport detail",
	0x07: "log",
	0x08: "RR interval",
	0x09: "Statistics info",
	0x0A: "AF",
	0x0B: "AF PPG",
	0x0C: "ALG info",
	0x0D: "PAI",
	0x0E: "Coaching",
	0x0F: "HR summary",
	0x10: "PPG",
	0x11: "AF result",
	0x12: "Stress",
	0x13: "Allday stress",
	0x1C: "data summary",
	0x1E: "AF ACC",
	0x20: "health summary",
	0x21: "GPS detail",
	0x22: "heart rate detail",
	0x23: "Firstbeat data",
	0x24: "Firstbeat config",
	0x25: "SPO2",
	0x26: "OSA process SPO2",
	0x27: "OSA event information",
	0x28: "ODI数据",
	0x29: "站立数据",
	0x2A: "ECGsummary",
	0x2B: "York OSA事件信息",
	0x2C: "打点数据",
	0x2D: "固件ECG丢包标记信息",
	0x2E: "全天腕温数据",
	0x2F: "腕温单次测量数据",
	0x30: "腕温80S数据",
	0x31: "耳机听力健康相关数据",
	0x32: "高低心率扩展协议数据",
	0x33: "设备端设置数据",
	0x34: "血压校准原始数据",
	0x35: "血压校准特征数据",
	0x36: "手动测量原始数据",
	0x37: "手动测量结果",
	0x38: "睡眠呼吸率数据",
	0x39: "睡眠呼吸率事件",
	0x3A: "静息心率",
	0x3B: "运动效果",
	0x3C: "行为标注离线数据采集",
	0x3D: "运动最大心率数据",
	0x3E: "睡眠连续血压测量结果",
	0x3F: "今日活动同步",
	0x40: "高低心率提醒",
	0x41: "低血氧提醒",
	0x42: "睡眠计划同步",
	0x43: "身体电量",
	0x44: "跌倒检测ACC数据",
	0x45: "跌倒检测执行情况",
	0x46: "运动后恢复心率",
	0x47: "身体成分",
	0x48: "睡眠结果",
	0x49: "HRV",
	0x4A: "OSA result",
	0x4B: "Health center",
	0x4C: "Jet lag",
	0x50: "chip log",
	0x51: "Duet statistic",
	0x52: "Body composition accessories",
	0x53: "Ambient light",
	0x54: "EDA raw data",
}

// exemptTypes may legitimately carry make times ahead of the wall clock.
var exemptTypes = map[int]bool{
	0x2C: true,
}

// TypeName renders a decimal type code as "Name(code)". Codes without a
// name render as "code(code)".
func TypeName(code string) string {
	n, err := strconv.Atoi(code)
	if err != nil {
		return fmt.Sprintf("%s(%s)", code, code)
	}
	name, ok := gdspTypes[n]
	if !ok {
		return fmt.Sprintf("%s(%s)", code, code)
	}
	return fmt.Sprintf("%s(%s)", name, code)
}

// IsExempt reports whether future make times are expected for a decimal type code.
func IsExempt(code string) bool {
	n, err := strconv.Atoi(code)
	return err == nil && exemptTypes[n]
}
