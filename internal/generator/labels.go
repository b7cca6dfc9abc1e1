package generator

import "strings"

// Labels holds the fixed wording of the rendered document.
type Labels struct {
	Colon          string
	NoDescription  string
	None           string
	NoExample      string
	Classes        string
	Functions      string
	InheritsFrom   string
	MethodDetails  string
	Methods        string
	Details        string
	Description    string
	Parameters     string
	Returns        string
	Example        string
	Line           string
	Source         string
	StatsTitle     string
	TotalFiles     string
	TotalClasses   string
	TotalFunctions string
	Elapsed        string
	Seconds        string
	LastUpdate     string
	SkeletonTitle  string
}

var englishLabels = Labels{
	Colon:          ": ",
	NoDescription:  "no description",
	None:           "none",
	NoExample:      "no example",
	Classes:        "**Classes:**",
	Functions:      "**Functions:**",
	InheritsFrom:   "**Inherits from:**",
	MethodDetails:  "View method details",
	Methods:        "**Methods:**",
	Details:        "Details",
	Description:    "**Description:**",
	Parameters:     "**Parameters:**",
	Returns:        "**Returns:**",
	Example:        "**Example:**",
	Line:           "line",
	Source:         "source",
	StatsTitle:     "Documentation Statistics",
	TotalFiles:     "Total files",
	TotalClasses:   "Total classes",
	TotalFunctions: "Total functions",
	Elapsed:        "Generation time",
	Seconds:        "s",
	LastUpdate:     "Last updated",
	SkeletonTitle:  "# Project Documentation",
}

var chineseLabels = Labels{
	Colon:          "：",
	NoDescription:  "暂无描述",
	None:           "无",
	NoExample:      "暂无示例",
	Classes:        "**类：**",
	Functions:      "**函数：**",
	InheritsFrom:   "**继承自：**",
	MethodDetails:  "查看方法详情",
	Methods:        "**方法：**",
	Details:        "详细信息",
	Description:    "**功能说明：**",
	Parameters:     "**参数：**",
	Returns:        "**返回值：**",
	Example:        "**示例：**",
	Line:           "行",
	Source:         "源码",
	StatsTitle:     "文档统计",
	TotalFiles:     "总文件数",
	TotalClasses:   "总类数",
	TotalFunctions: "总函数数",
	Elapsed:        "生成用时",
	Seconds:        "秒",
	LastUpdate:     "最后更新",
	SkeletonTitle:  "# 项目文档",
}

// LabelsFor picks the wording for a language tag such as "en_US" or "zh_CN".
// Unknown tags fall back to English.
func LabelsFor(language string) Labels {
	if strings.HasPrefix(strings.ToLower(language), "zh") {
		return chineseLabels
	}
	return englishLabels
}
