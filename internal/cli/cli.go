// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"snapctx/internal/config"
	"snapctx/internal/ignore"
	"snapctx/internal/merge"
	"snapctx/internal/output"
	"snapctx/internal/scan"
	"snapctx/internal/services/clipboard"
	"snapctx/internal/tokenizer"
	"snapctx/internal/types"
	"snapctx/internal/utils"
)

const (
	filesFlagName       = "files"
	filesListFlagName   = "files-list"
	outputFlagName      = "output"
	excludeFileFlagName = "exclude-file"
	noGitignoreFlagName = "no-gitignore"
	exclusionFlagName   = "e"
	maxFileSizeFlagName = "max-file-size"
	forceFlagName       = "force"
	copyFlagName        = "copy"
	tokensFlagName      = "tokens"
	modelFlagName       = "model"
	configFlagName      = "config"
	versionFlagName     = "version"

	versionTemplate      = "snapctx version: %s\n"
	defaultPath          = "."
	rootUse              = "snapctx"
	rootShortDescription = "snapctx command line interface"
	rootLongDescription  = `snapctx builds a textual context snapshot of a source-code project for
pasting into a large-language-model conversation: a directory tree plus the
full contents of selected files, trimmed by gitignore-style exclusion rules.`

	snapshotUse              = "snapshot [directory]"
	treeUse                  = "tree [directory]"
	snapshotAlias            = "s"
	treeAlias                = "t"
	snapshotShortDescription = "generate a context snapshot file (" + snapshotAlias + ")"
	treeShortDescription     = "print the project tree (" + treeAlias + ")"

	// snapshotLongDescription provides detailed help for the snapshot command.
	snapshotLongDescription = `Generate a context artifact containing the project tree and the full
contents of the selected files. Exclusion rules are layered: built-in
defaults, the project .gitignore, then the user-supplied exclude file.
Files named with --files or --files-list are always included.`
	// snapshotUsageExample demonstrates snapshot command usage.
	snapshotUsageExample = `  # Snapshot the current project with two files included in full
  snapctx snapshot --files main.go --files README.md

  # Use a file list and copy the artifact to the clipboard
  snapctx snapshot --files-list files.txt --copy .`

	// treeLongDescription provides detailed help for the tree command.
	treeLongDescription = `Print the filtered directory tree without merging any file contents.`
	// treeUsageExample demonstrates tree command usage.
	treeUsageExample = `  # Print the tree ignoring .gitignore rules
  snapctx tree --no-gitignore .`

	filesFlagDescription       = "file to include in full (repeatable)"
	filesListFlagDescription   = "file containing newline-separated paths to include"
	outputFlagDescription      = "output artifact file name"
	excludeFileFlagDescription = "file containing additional exclude patterns"
	noGitignoreFlagDescription = "do not use .gitignore"
	exclusionFlagDescription   = "exclude path pattern"
	maxFileSizeFlagDescription = "per-file size ceiling in bytes"
	forceFlagDescription       = "include oversized files anyway"
	copyFlagDescription        = "copy the artifact to the system clipboard"
	tokensFlagDescription      = "log a token estimate for the artifact"
	modelFlagDescription       = "tokenizer model used for token estimation"
	configFlagDescription      = "explicit configuration file path"
	versionFlagDescription     = "display application version"

	warningSkipPatternFormat    = "skipping pattern line"
	warningMergeFailureFormat   = "file not merged"
	warningLargeSnapshotMessage = "aggregate snapshot size is large; consider trimming the file list"
)

// Execute runs the snapctx application.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(logger)
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(logger *zap.Logger) *cobra.Command {
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.AddCommand(
		createSnapshotCommand(logger),
		createTreeCommand(logger),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// snapshotOptions stores flag values for the snapshot command.
type snapshotOptions struct {
	includeFiles      []string
	filesListPath     string
	outputPath        string
	excludeFilePath   string
	exclusionPatterns []string
	disableGitignore  bool
	maxFileSizeBytes  int64
	force             bool
	copyToClipboard   bool
	tokensEnabled     bool
	tokenizerModel    string
	configFilePath    string
}

// createSnapshotCommand returns the snapshot subcommand.
func createSnapshotCommand(logger *zap.Logger) *cobra.Command {
	var options snapshotOptions

	snapshotCommand := &cobra.Command{
		Use:     snapshotUse,
		Aliases: []string{snapshotAlias},
		Short:   snapshotShortDescription,
		Long:    snapshotLongDescription,
		Example: snapshotUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			projectDirectory := defaultPath
			if len(arguments) == 1 {
				projectDirectory = arguments[0]
			}
			return runSnapshot(command, projectDirectory, options, logger)
		},
	}

	snapshotCommand.Flags().StringArrayVar(&options.includeFiles, filesFlagName, nil, filesFlagDescription)
	snapshotCommand.Flags().StringVar(&options.filesListPath, filesListFlagName, "", filesListFlagDescription)
	snapshotCommand.Flags().StringVar(&options.outputPath, outputFlagName, utils.DefaultOutputFileName, outputFlagDescription)
	snapshotCommand.Flags().StringVar(&options.excludeFilePath, excludeFileFlagName, "", excludeFileFlagDescription)
	snapshotCommand.Flags().StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	snapshotCommand.Flags().BoolVar(&options.disableGitignore, noGitignoreFlagName, false, noGitignoreFlagDescription)
	snapshotCommand.Flags().Int64Var(&options.maxFileSizeBytes, maxFileSizeFlagName, types.DefaultMaxFileSizeBytes, maxFileSizeFlagDescription)
	snapshotCommand.Flags().BoolVar(&options.force, forceFlagName, false, forceFlagDescription)
	snapshotCommand.Flags().BoolVar(&options.copyToClipboard, copyFlagName, false, copyFlagDescription)
	snapshotCommand.Flags().BoolVar(&options.tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	snapshotCommand.Flags().StringVar(&options.tokenizerModel, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	snapshotCommand.Flags().StringVar(&options.configFilePath, configFlagName, "", configFlagDescription)
	return snapshotCommand
}

// treeOptions stores flag values for the tree command.
type treeOptions struct {
	excludeFilePath   string
	exclusionPatterns []string
	disableGitignore  bool
	configFilePath    string
}

// createTreeCommand returns the tree subcommand.
func createTreeCommand(logger *zap.Logger) *cobra.Command {
	var options treeOptions

	treeCommand := &cobra.Command{
		Use:     treeUse,
		Aliases: []string{treeAlias},
		Short:   treeShortDescription,
		Long:    treeLongDescription,
		Example: treeUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			projectDirectory := defaultPath
			if len(arguments) == 1 {
				projectDirectory = arguments[0]
			}
			return runTree(command, projectDirectory, options, logger)
		},
	}

	treeCommand.Flags().StringVar(&options.excludeFilePath, excludeFileFlagName, "", excludeFileFlagDescription)
	treeCommand.Flags().StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	treeCommand.Flags().BoolVar(&options.disableGitignore, noGitignoreFlagName, false, noGitignoreFlagDescription)
	treeCommand.Flags().StringVar(&options.configFilePath, configFlagName, "", configFlagDescription)
	return treeCommand
}

// runSnapshot builds the engine, walks the project, merges the selected files,
// and writes the context artifact.
func runSnapshot(command *cobra.Command, projectDirectory string, options snapshotOptions, logger *zap.Logger) error {
	absoluteProjectPath, absolutePathError := filepath.Abs(projectDirectory)
	if absolutePathError != nil {
		return fmt.Errorf("abs failed for '%s': %w", projectDirectory, absolutePathError)
	}

	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: absoluteProjectPath,
		ExplicitFilePath: options.configFilePath,
	})
	if configurationError != nil {
		return configurationError
	}
	options = applySnapshotConfiguration(command, options, applicationConfiguration.Snapshot)

	includeFiles := append([]string{}, options.includeFiles...)
	if options.filesListPath != "" {
		listedFiles, listError := config.LoadFileList(options.filesListPath)
		if listError != nil {
			return listError
		}
		includeFiles = append(includeFiles, listedFiles...)
	}

	engine, treeBuilder, buildError := buildEngine(engineParameters{
		projectRoot:      absoluteProjectPath,
		excludeFilePath:  options.excludeFilePath,
		useGitignore:     !options.disableGitignore,
		extraExcludes:    options.exclusionPatterns,
		explicitIncludes: includeFiles,
	}, logger)
	if buildError != nil {
		return buildError
	}

	rootNode, treeError := treeBuilder.Build(absoluteProjectPath)
	if treeError != nil {
		return treeError
	}

	fileCollector := &scan.FileCollector{
		Engine:           engine,
		Logger:           logger,
		MaxFileSizeBytes: options.maxFileSizeBytes,
	}
	collectResult, collectError := fileCollector.Collect(absoluteProjectPath)
	if collectError != nil {
		return collectError
	}
	if collectResult.TotalSizeBytes > types.DefaultMaxFileSizeBytes && !options.force {
		logger.Warn(warningLargeSnapshotMessage,
			zap.String("totalSize", utils.FormatFileSize(collectResult.TotalSizeBytes)),
			zap.Int("files", len(collectResult.Entries)))
	}

	mergeCeiling := options.maxFileSizeBytes
	if options.force {
		mergeCeiling = math.MaxInt64
	}
	contentMerger := &merge.ContentMerger{
		ProjectRoot:      absoluteProjectPath,
		Engine:           engine,
		MaxFileSizeBytes: mergeCeiling,
	}
	mergeResults := contentMerger.Merge(includeFiles)
	for _, result := range mergeResults {
		if result.Failure != nil {
			logger.Warn(warningMergeFailureFormat,
				zap.String("path", result.Path),
				zap.String("reason", string(result.Failure.Reason)))
		}
	}

	outputFile, createError := os.Create(options.outputPath)
	if createError != nil {
		return fmt.Errorf("creating output file %s: %w", options.outputPath, createError)
	}
	metadata := output.ArtifactMetadata{ProjectPath: absoluteProjectPath}
	if writeError := output.WriteArtifact(outputFile, metadata, rootNode, mergeResults); writeError != nil {
		outputFile.Close()
		return fmt.Errorf("writing artifact %s: %w", options.outputPath, writeError)
	}
	if closeError := outputFile.Close(); closeError != nil {
		return fmt.Errorf("closing artifact %s: %w", options.outputPath, closeError)
	}
	logger.Info("context artifact written", zap.String("output", options.outputPath))

	return finishArtifact(options, logger)
}

// finishArtifact applies the optional clipboard copy and token estimate to the
// written artifact.
func finishArtifact(options snapshotOptions, logger *zap.Logger) error {
	if !options.copyToClipboard && !options.tokensEnabled {
		return nil
	}

	artifactBytes, readError := os.ReadFile(options.outputPath)
	if readError != nil {
		return fmt.Errorf("reading artifact %s: %w", options.outputPath, readError)
	}
	artifactText := string(artifactBytes)

	if options.copyToClipboard {
		if copyError := clipboard.NewService().Copy(artifactText); copyError != nil {
			logger.Warn("unable to copy artifact to clipboard", zap.Error(copyError))
		} else {
			logger.Info("artifact copied to clipboard")
		}
	}

	if options.tokensEnabled {
		counter, resolvedModel, counterError := tokenizer.NewCounter(options.tokenizerModel)
		if counterError != nil {
			return counterError
		}
		tokenCount, countError := counter.CountString(artifactText)
		if countError != nil {
			logger.Warn("unable to estimate tokens", zap.Error(countError))
		} else {
			logger.Info("token estimate", zap.Int("tokens", tokenCount), zap.String("model", resolvedModel))
		}
	}
	return nil
}

// runTree prints the filtered project tree to stdout.
func runTree(command *cobra.Command, projectDirectory string, options treeOptions, logger *zap.Logger) error {
	absoluteProjectPath, absolutePathError := filepath.Abs(projectDirectory)
	if absolutePathError != nil {
		return fmt.Errorf("abs failed for '%s': %w", projectDirectory, absolutePathError)
	}

	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: absoluteProjectPath,
		ExplicitFilePath: options.configFilePath,
	})
	if configurationError != nil {
		return configurationError
	}
	options = applyTreeConfiguration(command, options, applicationConfiguration.Tree)

	_, treeBuilder, buildError := buildEngine(engineParameters{
		projectRoot:     absoluteProjectPath,
		excludeFilePath: options.excludeFilePath,
		useGitignore:    !options.disableGitignore,
		extraExcludes:   options.exclusionPatterns,
	}, logger)
	if buildError != nil {
		return buildError
	}

	rootNode, treeError := treeBuilder.Build(absoluteProjectPath)
	if treeError != nil {
		return treeError
	}
	fmt.Fprint(command.OutOrStdout(), output.RenderTree(rootNode))
	return nil
}

// engineParameters collects the inputs needed to construct one exclusion engine.
type engineParameters struct {
	projectRoot      string
	excludeFilePath  string
	useGitignore     bool
	extraExcludes    []string
	explicitIncludes []string
}

// buildEngine loads the layered pattern sources and constructs the single
// engine instance shared by tree building and file collection.
func buildEngine(parameters engineParameters, logger *zap.Logger) (*ignore.Engine, *scan.TreeBuilder, error) {
	sources, sourcesError := config.LoadEngineSources(config.EngineSourceOptions{
		ProjectRoot:      parameters.projectRoot,
		ExcludeFilePath:  parameters.excludeFilePath,
		UseGitignore:     parameters.useGitignore,
		ExtraExcludes:    parameters.extraExcludes,
		ExplicitIncludes: parameters.explicitIncludes,
	})
	if sourcesError != nil {
		return nil, nil, sourcesError
	}

	engine, parseWarnings := ignore.NewEngine(sources)
	for _, warning := range parseWarnings {
		logger.Warn(warningSkipPatternFormat,
			zap.String("source", warning.Source),
			zap.Int("line", warning.LineNumber),
			zap.String("pattern", warning.Line),
			zap.String("reason", warning.Message))
	}

	treeBuilder := &scan.TreeBuilder{Engine: engine, Logger: logger}
	return engine, treeBuilder, nil
}

// applySnapshotConfiguration seeds unset snapshot flags from the merged configuration.
func applySnapshotConfiguration(command *cobra.Command, options snapshotOptions, configuration config.SnapshotConfiguration) snapshotOptions {
	flags := command.Flags()
	if !flags.Changed(outputFlagName) && configuration.Output != "" {
		options.outputPath = configuration.Output
	}
	if !flags.Changed(excludeFileFlagName) && configuration.ExcludeFile != "" {
		options.excludeFilePath = configuration.ExcludeFile
	}
	if !flags.Changed(maxFileSizeFlagName) && configuration.MaxFileSize != nil {
		options.maxFileSizeBytes = *configuration.MaxFileSize
	}
	if !flags.Changed(copyFlagName) && configuration.Clipboard != nil {
		options.copyToClipboard = *configuration.Clipboard
	}
	if !flags.Changed(tokensFlagName) && configuration.Tokens.Enabled != nil {
		options.tokensEnabled = *configuration.Tokens.Enabled
	}
	if !flags.Changed(modelFlagName) && configuration.Tokens.Model != "" {
		options.tokenizerModel = configuration.Tokens.Model
	}
	if !flags.Changed(noGitignoreFlagName) && configuration.Paths.UseGitignore != nil {
		options.disableGitignore = !*configuration.Paths.UseGitignore
	}
	options.exclusionPatterns = append(options.exclusionPatterns, configuration.Paths.Exclude...)
	return options
}

// applyTreeConfiguration seeds unset tree flags from the merged configuration.
func applyTreeConfiguration(command *cobra.Command, options treeOptions, configuration config.TreeConfiguration) treeOptions {
	flags := command.Flags()
	if !flags.Changed(excludeFileFlagName) && configuration.ExcludeFile != "" {
		options.excludeFilePath = configuration.ExcludeFile
	}
	if !flags.Changed(noGitignoreFlagName) && configuration.Paths.UseGitignore != nil {
		options.disableGitignore = !*configuration.Paths.UseGitignore
	}
	options.exclusionPatterns = append(options.exclusionPatterns, configuration.Paths.Exclude...)
	return options
}
