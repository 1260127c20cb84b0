package hive

// Security descriptor shared by every key in the hive.
// Self-relative layout: 20-byte header, DACL, owner SID, group SID.

const (
	sdRevision      = 1
	aclRevision     = 2
	sdHeaderSize    = 20
	aclHeaderSize   = 8
	aceHeaderSize   = 8
	seDaclPresent   = 0x0004
	seSelfRelative  = 0x8000
	aceAccessAllow  = 0x00
	aceInheritFlags = 0x02 // CONTAINER_INHERIT_ACE
	keyAllAccess    = 0x000F003F
)

type sid struct {
	authority    byte
	subAuthority []uint32
}

var (
	sidLocalSystem    = sid{authority: 5, subAuthority: []uint32{18}}
	sidAdministrators = sid{authority: 5, subAuthority: []uint32{32, 544}}
)

func (s sid) bytes() []byte {
	b := make([]byte, 8+4*len(s.subAuthority))
	b[0] = 1
	b[1] = byte(len(s.subAuthority))
	b[7] = s.authority
	for i, sub := range s.subAuthority {
		le.PutUint32(b[8+4*i:], sub)
	}
	return b
}

func accessAllowedACE(mask uint32, s sid) []byte {
	sidBytes := s.bytes()
	ace := make([]byte, aceHeaderSize+len(sidBytes))
	ace[0] = aceAccessAllow
	ace[1] = aceInheritFlags
	le.PutUint16(ace[2:], uint16(len(ace)))
	le.PutUint32(ace[4:], mask)
	copy(ace[aceHeaderSize:], sidBytes)
	return ace
}

// defaultSecurityDescriptor grants full control to SYSTEM and Administrators, owned by
// Administrators with SYSTEM as the primary group.
func defaultSecurityDescriptor() []byte {
	aces := append(accessAllowedACE(keyAllAccess, sidLocalSystem), accessAllowedACE(keyAllAccess, sidAdministrators)...)

	acl := make([]byte, aclHeaderSize+len(aces))
	acl[0] = aclRevision
	le.PutUint16(acl[2:], uint16(len(acl)))
	le.PutUint16(acl[4:], 2)
	copy(acl[aclHeaderSize:], aces)

	owner := sidAdministrators.bytes()
	group := sidLocalSystem.bytes()

	daclOffset := sdHeaderSize
	ownerOffset := daclOffset + len(acl)
	groupOffset := ownerOffset + len(owner)

	sd := make([]byte, groupOffset+len(group))
	sd[0] = sdRevision
	le.PutUint16(sd[2:], seSelfRelative|seDaclPresent)
	le.PutUint32(sd[4:], uint32(ownerOffset))
	le.PutUint32(sd[8:], uint32(groupOffset))
	le.PutUint32(sd[16:], uint32(daclOffset))
	copy(sd[daclOffset:], acl)
	copy(sd[ownerOffset:], owner)
	copy(sd[groupOffset:], group)
	return sd
}
