package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/cloudwego/eino-ext/components/retriever/es8"
	"github.com/cloudwego/eino-ext/components/retriever/es8/search_mode"
	duckduckgov2 "github.com/cloudwego/eino-ext/components/tool/duckduckgo/v2"
	httptool "github.com/cloudwego/eino-ext/components/tool/httprequest"
	sequentialthinking "github.com/cloudwego/eino-ext/components/tool/sequentialthinking"
	wikipediatool "github.com/cloudwego/eino-ext/components/tool/wikipedia"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/retriever"
	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/elastic/go-elasticsearch/v8"

	"github.com/ashwinyue/next-chat/internal/config"
)

// CalculatorInput calculator 输入参数
type CalculatorInput struct {
	Operation string  `json:"operation" jsonschema_description:"运算类型: add, subtract, multiply, divide"`
	A         float64 `json:"a" jsonschema_description:"第一个操作数"`
	B         float64 `json:"b" jsonschema_description:"第二个操作数"`
}

// newCalculatorTool 创建计算器工具
func newCalculatorTool() einotool.InvokableTool {
	t, err := utils.InferTool(
		"calculator",
		"Perform basic arithmetic. Supported operations: add, subtract, multiply, divide.",
		func(ctx context.Context, input *CalculatorInput) (string, error) {
			var result float64
			switch input.Operation {
			case "add":
				result = input.A + input.B
			case "subtract":
				result = input.A - input.B
			case "multiply":
				result = input.A * input.B
			case "divide":
				if input.B == 0 {
					return "", fmt.Errorf("division by zero")
				}
				result = input.A / input.B
			default:
				return "", fmt.Errorf("unsupported operation: %s", input.Operation)
			}
			return fmt.Sprintf("%g", result), nil
		},
	)
	if err != nil {
		log.Printf("Warning: failed to create calculator tool: %v", err)
		return nil
	}
	return t
}

// newWebSearchTool 创建网络搜索工具
func newWebSearchTool(ctx context.Context) einotool.InvokableTool {
	searchTool, err := duckduckgov2.NewTextSearchTool(ctx, &duckduckgov2.Config{
		ToolName:   "web_search",
		ToolDesc:   "Search the web for current information using DuckDuckGo. Use this when you need up-to-date information.",
		MaxResults: 10,
	})
	if err != nil {
		log.Printf("Warning: failed to create web search tool: %v", err)
		return &stubTool{name: "web_search"}
	}
	return searchTool
}

// newTools 初始化所有工具
func newTools(ctx context.Context, retriever *es8.Retriever) []einotool.BaseTool {
	tools := []einotool.BaseTool{}

	// 网络搜索 (eino-ext duckduckgo)
	tools = append(tools, newWebSearchTool(ctx))

	// 计算器
	if calc := newCalculatorTool(); calc != nil {
		tools = append(tools, calc)
	}

	// HTTP 请求 (eino-ext httprequest)
	httpTools, err := httptool.NewToolKit(ctx, &httptool.Config{})
	if err != nil {
		log.Printf("Warning: failed to create http tools: %v", err)
	} else {
		tools = append(tools, httpTools...)
	}

	// Wikipedia 搜索 (eino-ext wikipedia)
	wikiTool, err := wikipediatool.NewTool(ctx, &wikipediatool.Config{
		Language: "en",
		TopK:     3,
	})
	if err != nil {
		log.Printf("Warning: failed to create wikipedia tool: %v", err)
	} else {
		tools = append(tools, wikiTool)
	}

	// 顺序思考 (eino-ext sequentialthinking)
	thinkTool, err := sequentialthinking.NewTool()
	if err != nil {
		log.Printf("Warning: failed to create sequentialthinking tool: %v", err)
	} else {
		tools = append(tools, thinkTool)
	}

	// 文档检索
	if retriever != nil {
		tools = append(tools, newKnowledgeSearchTool(retriever))
	}

	return tools
}

// newES8Retriever 创建 ES8 检索器，未配置或失败时返回 nil
func newES8Retriever(ctx context.Context, cfg *config.Config, embedder embedding.Embedder) *es8.Retriever {
	esCfg := cfg.Elastic

	if !esCfg.Enabled() {
		return nil
	}
	if embedder == nil {
		log.Printf("Warning: elasticsearch configured but no embedder available, knowledge search disabled")
		return nil
	}

	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{esCfg.Host},
		Username:  esCfg.Username,
		Password:  esCfg.Password,
	})
	if err != nil {
		log.Printf("Warning: failed to create es client: %v", err)
		return nil
	}

	indexName := esCfg.IndexPrefix + "_chunks"

	r, err := es8.NewRetriever(ctx, &es8.RetrieverConfig{
		Client:     esClient,
		Index:      indexName,
		TopK:       10,
		SearchMode: search_mode.SearchModeDenseVectorSimilarity(search_mode.DenseVectorSimilarityTypeCosineSimilarity, "content_vector"),
		Embedding:  embedder,
	})
	if err != nil {
		log.Printf("Warning: failed to create retriever: %v", err)
		return nil
	}

	return r
}

// KnowledgeSearchTool 已索引文档的语义检索工具
type KnowledgeSearchTool struct {
	retriever *es8.Retriever
}

func newKnowledgeSearchTool(r *es8.Retriever) einotool.InvokableTool {
	return &KnowledgeSearchTool{retriever: r}
}

func (t *KnowledgeSearchTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: "knowledge_search",
		Desc: "Searches previously uploaded documents for relevant passages using semantic search.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"query": {
				Type:     schema.String,
				Desc:     "The search query",
				Required: true,
			},
			"top_k": {
				Type: schema.Integer,
				Desc: "Number of results (optional, default 10)",
			},
		}),
	}, nil
}

func (t *KnowledgeSearchTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...einotool.Option) (string, error) {
	var input struct {
		Query string `json:"query"`
		TopK  int    `json:"top_k"`
	}
	if err := json.Unmarshal([]byte(argumentsInJSON), &input); err != nil {
		return "", fmt.Errorf("failed to parse arguments: %w", err)
	}
	if input.Query == "" {
		return "", fmt.Errorf("query is required")
	}
	if input.TopK <= 0 {
		input.TopK = 10
	}

	docs, err := t.retriever.Retrieve(ctx, input.Query, retriever.WithTopK(input.TopK))
	if err != nil {
		return "", fmt.Errorf("retriever failed: %w", err)
	}

	results := make([]map[string]interface{}, 0, len(docs))
	for _, doc := range docs {
		result := map[string]interface{}{
			"content": doc.Content,
			"score":   doc.Score(),
		}
		if doc.MetaData != nil {
			if name, ok := doc.MetaData["document_name"].(string); ok {
				result["document_name"] = name
			}
		}
		results = append(results, result)
	}

	output, _ := json.MarshalIndent(map[string]interface{}{
		"results": results,
		"total":   len(results),
		"query":   input.Query,
	}, "", "  ")

	return string(output), nil
}

// stubTool 占位工具
type stubTool struct {
	name string
}

func (t *stubTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: t.name,
		Desc: t.name + " (unavailable)",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"query": {
				Type:     schema.String,
				Desc:     "The query string",
				Required: true,
			},
		}),
	}, nil
}

func (t *stubTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...einotool.Option) (string, error) {
	return fmt.Sprintf(`{"error":"%s is not available"}`, t.name), nil
}

// GetToolsByName 根据名称获取工具，names 为空时返回全部
func GetToolsByName(ctx context.Context, names []string, allTools []einotool.BaseTool) ([]einotool.BaseTool, error) {
	if len(names) == 0 {
		return allTools, nil
	}

	toolMap := make(map[string]einotool.BaseTool)
	for _, t := range allTools {
		info, err := t.Info(ctx)
		if err != nil {
			continue
		}
		toolMap[info.Name] = t
	}

	result := make([]einotool.BaseTool, 0, len(names))
	for _, name := range names {
		t, ok := toolMap[name]
		if !ok {
			return nil, fmt.Errorf("tool not found: %s", name)
		}
		result = append(result, t)
	}
	return result, nil
}

// ListToolNames 列出所有工具名称
func ListToolNames(ctx context.Context, allTools []einotool.BaseTool) []string {
	names := make([]string, 0, len(allTools))
	for _, t := range allTools {
		info, err := t.Info(ctx)
		if err != nil {
			continue
		}
		names = append(names, info.Name)
	}
	return names
}
