package domain

import (
	"path"
	"strings"
)

// AssetType names the host's asset class
type AssetType string

const (
	TypeObject             AssetType = "Object"
	TypeFolder             AssetType = "Folder"
	TypeDefaultAsset       AssetType = "DefaultAsset"
	TypeGameObject         AssetType = "GameObject"
	TypePrefab             AssetType = "Prefab"
	TypeModel              AssetType = "Model"
	TypeScene              AssetType = "SceneAsset"
	TypeMaterial           AssetType = "Material"
	TypeTexture            AssetType = "Texture2D"
	TypeAudioClip          AssetType = "AudioClip"
	TypeScript             AssetType = "MonoScript"
	TypeShader             AssetType = "Shader"
	TypeAnimationClip      AssetType = "AnimationClip"
	TypeAnimatorController AssetType = "AnimatorController"
	TypeScriptableObject   AssetType = "ScriptableObject"
	TypeTextAsset          AssetType = "TextAsset"
	TypeFont               AssetType = "Font"
	TypePhysicsMaterial    AssetType = "PhysicMaterial"
)

// typeChains lists, per extension, the type followed by the base types it satisfies
var typeChains = map[string][]AssetType{
	".prefab":         {TypePrefab, TypeGameObject},
	".fbx":            {TypeModel, TypeGameObject},
	".obj":            {TypeModel, TypeGameObject},
	".blend":          {TypeModel, TypeGameObject},
	".unity":          {TypeScene},
	".mat":            {TypeMaterial},
	".png":            {TypeTexture},
	".jpg":            {TypeTexture},
	".jpeg":           {TypeTexture},
	".tga":            {TypeTexture},
	".psd":            {TypeTexture},
	".exr":            {TypeTexture},
	".wav":            {TypeAudioClip},
	".mp3":            {TypeAudioClip},
	".ogg":            {TypeAudioClip},
	".cs":             {TypeScript, TypeTextAsset},
	".shader":         {TypeShader},
	".shadergraph":    {TypeShader},
	".anim":           {TypeAnimationClip},
	".controller":     {TypeAnimatorController},
	".asset":          {TypeScriptableObject},
	".txt":            {TypeTextAsset},
	".json":           {TypeTextAsset},
	".xml":            {TypeTextAsset},
	".bytes":          {TypeTextAsset},
	".md":             {TypeTextAsset},
	".ttf":            {TypeFont},
	".otf":            {TypeFont},
	".physicmaterial": {TypePhysicsMaterial},
}

// TypeForPath derives the asset type of p
func TypeForPath(p string, isDir bool) AssetType {
	return typeChain(p, isDir)[0]
}

// IsA reports whether an asset at p satisfies the requested type name.
// Every asset is an Object.
func IsA(p string, isDir bool, name string) bool {
	for _, t := range typeChain(p, isDir) {
		if strings.EqualFold(string(t), name) {
			return true
		}
	}
	return false
}

func typeChain(p string, isDir bool) []AssetType {
	if isDir {
		return []AssetType{TypeFolder, TypeDefaultAsset, TypeObject}
	}
	chain, ok := typeChains[strings.ToLower(path.Ext(p))]
	if !ok {
		return []AssetType{TypeDefaultAsset, TypeObject}
	}
	return append(append([]AssetType{}, chain...), TypeObject)
}
