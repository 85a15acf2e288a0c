package workspace

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	manifestPathRequiredMessageConstant = "workspace manifest path must be provided"
	manifestLoadErrorTemplateConstant   = "failed to load workspace manifest: %w"
	manifestParseErrorTemplateConstant  = "failed to parse workspace manifest: %w"
	manifestEmptyMessageConstant        = "workspace manifest does not define any projects"
	projectRootMissingTemplateConstant  = "project %s does not define a root"
	projectNotFoundTemplateConstant     = "%w: %s"
	projectAmbiguousTemplateConstant    = "%w: choose one of %s"
	projectNameSeparatorConstant        = ", "
	defaultSourceDirectoryNameConstant  = "src"
	projectNotFoundMessageConstant      = "project not found in workspace manifest"
	projectNotSpecifiedMessageConstant  = "workspace defines several projects and none was selected"
)

var (
	// ErrProjectNotFound indicates the requested project is not declared in the manifest.
	ErrProjectNotFound = errors.New(projectNotFoundMessageConstant)
	// ErrProjectNotSpecified indicates a project name is required to disambiguate the manifest.
	ErrProjectNotSpecified = errors.New(projectNotSpecifiedMessageConstant)
	// ErrManifestEmpty indicates a manifest without projects.
	ErrManifestEmpty = errors.New(manifestEmptyMessageConstant)
)

// Manifest lists the projects of a workspace. YAML and JSON documents are both accepted.
type Manifest struct {
	Projects map[string]ProjectConfiguration `yaml:"projects" json:"projects"`
}

// ProjectConfiguration describes a single project in the workspace.
type ProjectConfiguration struct {
	Root       string                         `yaml:"root" json:"root"`
	SourceRoot string                         `yaml:"sourceRoot" json:"sourceRoot"`
	Targets    map[string]TargetConfiguration `yaml:"targets" json:"targets"`
}

// TargetConfiguration holds the executor name and raw options of a project target.
type TargetConfiguration struct {
	Executor string         `yaml:"executor" json:"executor"`
	Options  map[string]any `yaml:"options" json:"options"`
}

// Project pairs a project name with its configuration.
type Project struct {
	Name string
	ProjectConfiguration
}

// LoadManifest reads and validates the workspace manifest at filePath.
func LoadManifest(filePath string) (Manifest, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return Manifest{}, errors.New(manifestPathRequiredMessageConstant)
	}

	contentBytes, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return Manifest{}, fmt.Errorf(manifestLoadErrorTemplateConstant, readError)
	}

	return ParseManifest(contentBytes)
}

// ParseManifest decodes and validates manifest content.
func ParseManifest(contentBytes []byte) (Manifest, error) {
	var manifest Manifest
	if unmarshalError := yaml.Unmarshal(contentBytes, &manifest); unmarshalError != nil {
		return Manifest{}, fmt.Errorf(manifestParseErrorTemplateConstant, unmarshalError)
	}

	if len(manifest.Projects) == 0 {
		return Manifest{}, ErrManifestEmpty
	}

	normalizedProjects := make(map[string]ProjectConfiguration, len(manifest.Projects))
	for projectName, projectConfiguration := range manifest.Projects {
		trimmedName := strings.TrimSpace(projectName)
		normalizedConfiguration, normalizeError := projectConfiguration.normalize(trimmedName)
		if normalizeError != nil {
			return Manifest{}, normalizeError
		}
		normalizedProjects[trimmedName] = normalizedConfiguration
	}
	manifest.Projects = normalizedProjects

	return manifest, nil
}

// ProjectNames returns the declared project names in sorted order.
func (manifest Manifest) ProjectNames() []string {
	projectNames := make([]string, 0, len(manifest.Projects))
	for projectName := range manifest.Projects {
		projectNames = append(projectNames, projectName)
	}
	sort.Strings(projectNames)
	return projectNames
}

// ResolveProject looks up the named project. An empty name selects the only project of a single-project workspace.
func (manifest Manifest) ResolveProject(projectName string) (Project, error) {
	trimmedName := strings.TrimSpace(projectName)
	if len(trimmedName) == 0 {
		projectNames := manifest.ProjectNames()
		if len(projectNames) != 1 {
			return Project{}, fmt.Errorf(projectAmbiguousTemplateConstant, ErrProjectNotSpecified, strings.Join(projectNames, projectNameSeparatorConstant))
		}
		trimmedName = projectNames[0]
	}

	projectConfiguration, exists := manifest.Projects[trimmedName]
	if !exists {
		return Project{}, fmt.Errorf(projectNotFoundTemplateConstant, ErrProjectNotFound, trimmedName)
	}

	return Project{Name: trimmedName, ProjectConfiguration: projectConfiguration}, nil
}

// TargetOptions returns a copy of the raw options for the named target, or nil when the target is not declared.
func (project Project) TargetOptions(targetName string) map[string]any {
	targetConfiguration, exists := project.Targets[targetName]
	if !exists || len(targetConfiguration.Options) == 0 {
		return nil
	}

	copiedOptions := make(map[string]any, len(targetConfiguration.Options))
	for optionName, optionValue := range targetConfiguration.Options {
		copiedOptions[optionName] = optionValue
	}
	return copiedOptions
}

func (projectConfiguration ProjectConfiguration) normalize(projectName string) (ProjectConfiguration, error) {
	normalized := projectConfiguration
	normalized.Root = strings.TrimSpace(projectConfiguration.Root)
	if len(normalized.Root) == 0 {
		return ProjectConfiguration{}, fmt.Errorf(projectRootMissingTemplateConstant, projectName)
	}

	normalized.SourceRoot = strings.TrimSpace(projectConfiguration.SourceRoot)
	if len(normalized.SourceRoot) == 0 {
		normalized.SourceRoot = path.Join(normalized.Root, defaultSourceDirectoryNameConstant)
	}

	return normalized, nil
}
