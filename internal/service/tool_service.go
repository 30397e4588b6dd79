package service

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"ai-portal-go/internal/analytics"
	"ai-portal-go/internal/model"
	"ai-portal-go/internal/repository"
	"ai-portal-go/pkg/apperr"
	"ai-portal-go/pkg/log"
)

const (
	hotToolLimit     = 10
	relatedToolLimit = 5
)

// ToolResult 是工具调用的返回结果。
type ToolResult struct {
	ToolID string `json:"tool_id"`
	Result string `json:"result"`
	Status string `json:"status"`
}

// ToolRunner 执行具体的工具逻辑。
type ToolRunner interface {
	Run(ctx context.Context, tool *model.Tool, input map[string]interface{}) (*ToolResult, error)
}

// StubToolRunner 返回固定格式的模拟结果，尚未接入真实模型。
type StubToolRunner struct{}

func (StubToolRunner) Run(_ context.Context, tool *model.Tool, _ map[string]interface{}) (*ToolResult, error) {
	return &ToolResult{
		ToolID: tool.ToolID,
		Result: fmt.Sprintf("工具 %s 的处理结果", tool.Name),
		Status: "success",
	}, nil
}

// ToolService 接口定义了 AI 工具目录和调用的业务操作。
type ToolService interface {
	SeedDefaults() error
	List(category string, skip, limit int) ([]model.Tool, error)
	Categories() ([]string, error)
	Hot() ([]model.Tool, error)
	Get(toolID string) (*model.Tool, error)
	Related(toolID string) ([]model.Tool, error)
	Use(ctx context.Context, userID uint, toolID string, input map[string]interface{}, meta ClientMeta) (*ToolResult, error)
	UserUsage(userID uint, skip, limit int) ([]model.ToolUsage, error)
}

type toolService struct {
	toolRepo   repository.ToolRepository
	runner     ToolRunner
	activities ActivityService
}

// NewToolService 创建一个新的 ToolService 实例。
func NewToolService(toolRepo repository.ToolRepository, runner ToolRunner, activities ActivityService) ToolService {
	return &toolService{toolRepo: toolRepo, runner: runner, activities: activities}
}

// DefaultTools 是首次启动时写入的内置工具。
func DefaultTools() []model.Tool {
	defs := []struct{ id, name, desc, category, icon string }{
		{"contract-review", "合同审查助手", "智能分析合同条款，识别潜在风险", "文档处理", "document-text"},
		{"data-analysis", "数据分析工具", "自动化数据处理和可视化分析", "数据分析", "chart-bar"},
		{"image-style-transfer", "图片风格转换器", "将图片转换为不同的艺术风格", "图像处理", "image"},
		{"speech-to-text", "语音转文字助手", "高精度语音识别和转录服务", "语音处理", "microphone"},
		{"code-completion", "代码智能补全器", "AI驱动的代码自动补全和优化建议", "编程辅助", "code"},
		{"sentiment-analysis", "情感分析检测器", "分析文本情感倾向和情绪状态", "文本分析", "emoji-happy"},
	}
	tools := make([]model.Tool, 0, len(defs))
	for _, d := range defs {
		tools = append(tools, model.Tool{
			ToolID:      d.id,
			Name:        d.name,
			Description: d.desc,
			Category:    d.category,
			Icon:        d.icon,
			Endpoint:    fmt.Sprintf("/api/v1/ai-tools/%s/use", d.id),
			IsActive:    true,
			IsPublic:    true,
		})
	}
	return tools
}

// SeedDefaults 在工具表为空时写入内置工具。
func (s *toolService) SeedDefaults() error {
	count, err := s.toolRepo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		log.Infof("[ToolService] 工具表已有 %d 条记录，跳过初始化", count)
		return nil
	}
	tools := DefaultTools()
	if err := s.toolRepo.CreateBatch(tools); err != nil {
		return fmt.Errorf("写入默认工具失败: %w", err)
	}
	log.Infof("[ToolService] 已写入 %d 个默认工具", len(tools))
	return nil
}

func (s *toolService) List(category string, skip, limit int) ([]model.Tool, error) {
	return s.toolRepo.List(category, skip, limit)
}

func (s *toolService) Categories() ([]string, error) {
	return s.toolRepo.Categories()
}

func (s *toolService) Hot() ([]model.Tool, error) {
	return s.toolRepo.Hot(hotToolLimit)
}

// Get 返回启用的工具。
func (s *toolService) Get(toolID string) (*model.Tool, error) {
	tool, err := s.toolRepo.FindByToolID(toolID)
	if err != nil {
		return nil, notFound(err, "工具不存在")
	}
	if !tool.IsActive {
		return nil, apperr.NotFound("工具不存在")
	}
	return tool, nil
}

func (s *toolService) Related(toolID string) ([]model.Tool, error) {
	tool, err := s.Get(toolID)
	if err != nil {
		return nil, err
	}
	return s.toolRepo.Related(tool.Category, tool.ID, relatedToolLimit)
}

// Use 调用工具，使用记录和使用次数在同一事务中写入。
func (s *toolService) Use(ctx context.Context, userID uint, toolID string, input map[string]interface{}, meta ClientMeta) (*ToolResult, error) {
	tool, err := s.Get(toolID)
	if err != nil {
		return nil, err
	}

	result, err := s.runner.Run(ctx, tool, input)
	if err != nil {
		return nil, fmt.Errorf("工具执行失败: %w", err)
	}

	usageData, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("序列化工具输入失败: %w", err)
	}
	resultData, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("序列化工具结果失败: %w", err)
	}
	usage := &model.ToolUsage{
		ToolID:     tool.ID,
		UserID:     userID,
		UsageData:  datatypes.JSON(usageData),
		ResultData: datatypes.JSON(resultData),
	}
	if err := s.toolRepo.RecordUsage(usage); err != nil {
		return nil, fmt.Errorf("记录工具使用失败: %w", err)
	}

	recordQuietly(ctx, s.activities, userID, analytics.ActivityToolUse, tool.ToolID, meta)
	return result, nil
}

func (s *toolService) UserUsage(userID uint, skip, limit int) ([]model.ToolUsage, error) {
	return s.toolRepo.UsageByUser(userID, skip, limit)
}
