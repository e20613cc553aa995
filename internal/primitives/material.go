package primitives

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"shader-playground/internal/shader"
)

// roleLocations maps contract uniform roles onto the raylib shader location slots DrawMesh fills.
// RoleLightDirection has no slot; it is set by SetLightDirection.
var roleLocations = map[shader.Role]int32{
	shader.RoleWorld:            rl.ShaderLocMatrixModel,
	shader.RoleView:             rl.ShaderLocMatrixView,
	shader.RoleProjection:       rl.ShaderLocMatrixProjection,
	shader.RoleInverseTranspose: rl.ShaderLocMatrixNormal,
	shader.RoleTint:             rl.ShaderLocColorDiffuse,
}

// attributeLocations maps contract slots onto raylib attribute location slots.
var attributeLocations = map[shader.Slot]int32{
	shader.SlotPosition: rl.ShaderLocVertexPosition,
	shader.SlotTexcoord: rl.ShaderLocVertexTexcoord01,
	shader.SlotNormal:   rl.ShaderLocVertexNormal,
}

// ContractMaterial is a material whose shader was compiled from a contract.
type ContractMaterial struct {
	Contract shader.Contract
	Material rl.Material
	lightLoc int32
}

// LoadContract compiles c and points raylib's built-in locations at the names the contract
// declares, so DrawMesh feeds world/view/projection/inverseTranspose and binds the albedo
// texture to the first sampler. tex is ignored when the contract has no sampler.
func LoadContract(c shader.Contract, tex rl.Texture2D, tint rl.Color) (*ContractMaterial, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	sh := rl.LoadShaderFromMemory(c.Vertex, c.Fragment)
	if !rl.IsShaderValid(sh) {
		return nil, fmt.Errorf("primitives: shader %s failed to compile or link", c.Name)
	}
	for _, a := range c.Attributes {
		if slot, ok := attributeLocations[a.Slot]; ok {
			sh.UpdateLocation(slot, rl.GetShaderLocationAttrib(sh, a.Name))
		}
	}
	// Names the contract does not declare must not keep raylib's defaults (matModel, mvp...).
	for _, slot := range roleLocations {
		sh.UpdateLocation(slot, -1)
	}
	sh.UpdateLocation(rl.ShaderLocMatrixMvp, -1)
	sh.UpdateLocation(rl.ShaderLocMapAlbedo, -1)
	for _, u := range c.Uniforms {
		if slot, ok := roleLocations[u.Role]; ok {
			sh.UpdateLocation(slot, rl.GetShaderLocation(sh, u.Name))
		}
	}
	if len(c.Samplers) > 0 {
		sh.UpdateLocation(rl.ShaderLocMapAlbedo, rl.GetShaderLocation(sh, c.Samplers[0]))
	}

	mtl := rl.LoadMaterialDefault()
	mtl.Shader = sh
	if albedo := mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = tint
	}
	if len(c.Samplers) > 0 && rl.IsTextureValid(tex) {
		rl.SetMaterialTexture(&mtl, rl.MapAlbedo, tex)
	}
	cm := &ContractMaterial{Contract: c, Material: mtl, lightLoc: -1}
	if name := c.Uniform(shader.RoleLightDirection); name != "" {
		cm.lightLoc = rl.GetShaderLocation(sh, name)
	}
	return cm, nil
}

// SetLightDirection uploads the light direction if the contract declares one.
func (cm *ContractMaterial) SetLightDirection(dir [3]float32) {
	if cm.lightLoc < 0 {
		return
	}
	v := [3]float32{dir[0], dir[1], dir[2]}
	rl.SetShaderValue(cm.Material.Shader, cm.lightLoc, v[:], rl.ShaderUniformVec3)
}

// Draw draws g with this material, translated to position.
func (cm *ContractMaterial) Draw(g *GPUMesh, position [3]float32, doubleSided bool) {
	if doubleSided {
		rl.DisableBackfaceCulling()
		defer rl.EnableBackfaceCulling()
	}
	rl.DrawMesh(g.Mesh, cm.Material, rl.MatrixTranslate(position[0], position[1], position[2]))
}

// Unload releases the shader. The texture is owned by the caller and left loaded.
func (cm *ContractMaterial) Unload() {
	if cm == nil {
		return
	}
	rl.UnloadShader(cm.Material.Shader)
}
