// Package file keeps pagechat's user-editable state under the home
// directory: config.toml through ConfigStore and the system prompt
// templates in prompts/ through PromptStore, which reloads a template
// when it changes on disk.
package file
