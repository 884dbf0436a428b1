package mcp

import "github.com/mark3labs/mcp-go/mcp"

const pathDescription = "Component file, absolute or relative to the configured root directory"

func listComponentsTool() mcp.Tool {
	return mcp.NewTool("list_components",
		mcp.WithDescription("List the React components declared in a file and their displayName assignments"),
		mcp.WithString("path", mcp.Required(), mcp.Description(pathDescription)),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func addDisplayNamesTool() mcp.Tool {
	return mcp.NewTool("add_display_names",
		mcp.WithDescription("Append `X.displayName = \"<prefix>_X\"` for every component in a file that has none"),
		mcp.WithString("path", mcp.Required(), mcp.Description(pathDescription)),
		mcp.WithString("prefix", mcp.Description("Display name prefix; defaults to the configured display_name_prefix")),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
}

func removeDisplayNamesTool() mcp.Tool {
	return mcp.NewTool("remove_display_names",
		mcp.WithDescription("Delete every line holding a displayName assignment in a file"),
		mcp.WithString("path", mcp.Required(), mcp.Description(pathDescription)),
		mcp.WithDestructiveHintAnnotation(true),
	)
}

func renameDisplayNamesTool() mcp.Tool {
	return mcp.NewTool("rename_display_names",
		mcp.WithDescription("Rewrite string-literal displayName assignments in a file to use a new prefix"),
		mcp.WithString("path", mcp.Required(), mcp.Description(pathDescription)),
		mcp.WithString("prefix", mcp.Required(), mcp.Description("New display name prefix")),
		mcp.WithDestructiveHintAnnotation(true),
	)
}

func createStoryTool() mcp.Tool {
	return mcp.NewTool("create_story",
		mcp.WithDescription("Create a Storybook story file next to a component file. Never overwrites an existing story"),
		mcp.WithString("path", mcp.Required(), mcp.Description(pathDescription)),
		mcp.WithString("component", mcp.Description("Component to render; defaults to the first variable-bound component, else the first function component")),
		mcp.WithDestructiveHintAnnotation(false),
	)
}
