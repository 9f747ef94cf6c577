package catalogue

// builtinNames are display names for the prompts shipped with the server,
// used when no prompt file supplies a description.
var builtinNames = map[string]string{
	"api_documentation":            "API文档生成",
	"build_mcp_server":             "创建MCP服务器",
	"build_name":                   "生成名称",
	"code_refactoring":             "代码重构",
	"code_review":                  "代码审查",
	"gen_3d_celebrity_cards":       "3D名人卡片生成",
	"gen_3d_edu_webpage_html":      "3D教育网页生成",
	"gen_3d_webpage_html":          "3D网页生成",
	"gen_avatar_series":            "头像系列生成",
	"gen_bento_grid_html":          "Bento网格布局生成",
	"gen_business_card_photo":      "名片照片生成",
	"gen_html_web_page":            "HTML网页生成",
	"gen_knowledge_card_html":      "知识卡片生成",
	"gen_knowledge_sharing_tweets": "知识分享推文生成",
	"gen_magazine_card_html":       "杂志卡片生成",
	"gen_nuxt_static_website":      "Nuxt静态网站生成",
	"gen_mimeng_headline_title":    "咪蒙标题生成",
	"gen_podcast_script":           "播客脚本生成",
	"gen_prd_prototype_html":       "PRD原型生成",
	"gen_programmer_jokes":         "程序员段子生成",
	"gen_summarize":                "内容总结",
	"gen_title":                    "标题生成",
	"mimeng_headline_master":       "咪蒙标题大师",
	"mimeng_headline_master_v2":    "咪蒙标题大师V2",
	"project_architecture":         "项目架构设计",
	"prompt_template_generator":    "Prompt模板生成器",
	"test_case_generator":          "测试用例生成",
	"wechat_cover_image":           "微信封面图生成",
	"wechat_headline_generator":    "微信标题生成器",
	"writing_assistant":            "写作助手",
}

// BuiltinName returns the built-in display name for a prompt.
func BuiltinName(name string) (string, bool) {
	n, ok := builtinNames[name]
	return n, ok
}
